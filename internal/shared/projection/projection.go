package projection

import "math"

// Page is one slice of a paged query plus the total number of matching rows.
type Page[T any] struct {
	Total   int64
	Records []T
}

// PageRequest is a 1-based page number and page size.
type PageRequest struct {
	Page     int
	PageSize int
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxPage         = math.MaxInt32 / maxPageSize
)

// Normalize clamps the request to sane bounds.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Page > maxPage {
		r.Page = maxPage
	}
	if r.PageSize < 1 {
		r.PageSize = defaultPageSize
	}
	if r.PageSize > maxPageSize {
		r.PageSize = maxPageSize
	}
	return r
}

// Offset is the number of rows to skip.
func (r PageRequest) Offset() int {
	n := r.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Window returns the bounds of the requested page within a slice of length n.
func (r PageRequest) Window(n int) (start, end int) {
	norm := r.Normalize()
	start = r.Offset()
	if start > n {
		start = n
	}
	end = start + norm.PageSize
	if end > n {
		end = n
	}
	return start, end
}
