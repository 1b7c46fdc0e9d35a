package models

import (
	"math"
	"sort"
	"strings"
)

// FieldType is the stored type of an editable field.
type FieldType int

const (
	String FieldType = iota
	Int
	Bool
)

func (t FieldType) hint() string {
	switch t {
	case Int:
		return "must be a whole number"
	case Bool:
		return "must be true or false"
	default:
		return "must be a string"
	}
}

// FieldSet is an allowlist of document fields for partial updates, keyed by
// field name with the type the document stores.
type FieldSet map[string]FieldType

// Sanitize returns the subset of patch whose keys are in fs, plus the
// sorted list of keys it dropped. Operator and dotted keys are always
// dropped.
func (fs FieldSet) Sanitize(patch map[string]interface{}) (kept map[string]interface{}, dropped []string) {
	kept = make(map[string]interface{}, len(patch))
	for k, v := range patch {
		if _, ok := fs[k]; !ok || strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
			dropped = append(dropped, k)
			continue
		}
		kept[k] = v
	}
	sort.Strings(dropped)
	return kept, dropped
}

// Coerce converts every value of kept to its field's stored type. JSON
// numbers arrive as float64 and become int64 when whole. Values of the
// wrong type are reported per field and nothing is returned for them.
func (fs FieldSet) Coerce(kept map[string]interface{}) (map[string]interface{}, map[string]string) {
	out := make(map[string]interface{}, len(kept))
	var bad map[string]string
	for k, v := range kept {
		t := fs[k]
		cv, ok := coerce(t, v)
		if !ok {
			if bad == nil {
				bad = make(map[string]string)
			}
			bad[k] = t.hint()
			continue
		}
		out[k] = cv
	}
	return out, bad
}

func coerce(t FieldType, v interface{}) (interface{}, bool) {
	switch t {
	case Int:
		switch n := v.(type) {
		case int64:
			return n, true
		case int:
			return int64(n), true
		case float64:
			if n != math.Trunc(n) || math.IsInf(n, 0) || math.Abs(n) > 1<<53 {
				return nil, false
			}
			return int64(n), true
		}
		return nil, false
	case Bool:
		b, ok := v.(bool)
		return b, ok
	default:
		s, ok := v.(string)
		return s, ok
	}
}
