// Package collection holds generic slice helpers used by the in-memory
// repositories.
//
//	paid := collection.Filter(apps, func(a models.Application) bool { return a.PaymentStatus == "Paid" })
//	page := collection.Window(collection.SortBy(paid, newest), 10, 5)
package collection

import "sort"

// Filter returns the elements of s for which fn returns true. The result is
// never nil, so it encodes as [] in JSON.
func Filter[T any](s []T, fn func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// First returns the first element matching fn, or (zero, false).
func First[T any](s []T, fn func(T) bool) (T, bool) {
	for _, v := range s {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// IndexOf returns the index of the first element matching fn, or -1.
func IndexOf[T any](s []T, fn func(T) bool) int {
	for i, v := range s {
		if fn(v) {
			return i
		}
	}
	return -1
}

// SortBy stably sorts s in place and returns it.
func SortBy[T any](s []T, less func(a, b T) bool) []T {
	sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
	return s
}

// Window returns at most limit elements after skipping skip. A limit of
// zero or less means no limit.
func Window[T any](s []T, skip, limit int64) []T {
	if skip >= int64(len(s)) {
		return make([]T, 0)
	}
	if skip > 0 {
		s = s[skip:]
	}
	if limit > 0 && limit < int64(len(s)) {
		s = s[:limit]
	}
	return s
}
