package model

import "math"

// Paging limits. MaxPage keeps Offset from overflowing at MaxPageSize.
const (
	DefaultPageSize = 20
	MaxPageSize     = 2000
	MaxPage         = math.MaxInt32 / MaxPageSize
)

// Order is a single sort instruction
type Order struct {
	Property string
	Desc     bool
}

// Direction returns "asc" or "desc"
func (o Order) Direction() string {
	if o.Desc {
		return "desc"
	}
	return "asc"
}

// Pageable describes which page of a listing is requested.
// Page is zero-based.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

// Normalize returns a copy with the page size clamped to
// [1, MaxPageSize] and the page index to [0, MaxPage].
func (p Pageable) Normalize() Pageable {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// Page is one page of a listing together with the total number of rows
type Page[E any] struct {
	Content []E
	Total   int64
	Number  int
	Size    int
}

// TotalPages returns the number of pages needed for Total rows
func (p Page[E]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}
