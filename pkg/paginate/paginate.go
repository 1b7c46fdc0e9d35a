// Package paginate parses page/limit query values and computes page metadata.
package paginate

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)

// Params is a validated 1-indexed page request.
type Params struct {
	Page  int
	Limit int
}

// Parse reads raw query values. Missing, malformed or non-positive values
// fall back to the defaults; limit is capped at MaxLimit.
func Parse(page, limit string) Params {
	p := Params{Page: atoiOr(page, DefaultPage), Limit: atoiOr(limit, DefaultLimit)}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of records to skip.
func (p Params) Offset() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Meta is the pagination block of a listing response.
type Meta struct {
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewMeta computes the metadata for total records under p.
func NewMeta(p Params, total int64) Meta {
	limit := int64(p.Limit)
	pages := (total + limit - 1) / limit

	return Meta{
		TotalCount:  total,
		TotalPages:  pages,
		CurrentPage: p.Page,
		HasNext:     int64(p.Page) < pages,
		HasPrev:     p.Page > 1,
	}
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
