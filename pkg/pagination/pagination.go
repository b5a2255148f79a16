// Package pagination holds the 1-based page arithmetic shared by the list
// endpoints and the dashboard client.
package pagination

import (
	"math"
	"strconv"
)

const (
	// DefaultPageSize is the row count of one page of integration data.
	DefaultPageSize = 100
	// MaxPage caps requested pages so row offsets stay far from int overflow.
	MaxPage = math.MaxInt32
)

// Envelope is the response shape of every paginated list endpoint.
type Envelope[T any] struct {
	Data        []T   `json:"data"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

// NewEnvelope wraps one page of rows. A nil data slice is sent as [].
func NewEnvelope[T any](data []T, totalCount int64, page, pageSize int) Envelope[T] {
	if data == nil {
		data = []T{}
	}
	return Envelope[T]{
		Data:        data,
		TotalCount:  totalCount,
		TotalPages:  TotalPages(totalCount, pageSize),
		CurrentPage: page,
	}
}

// Range returns the inclusive row range [from, to] of a 1-based page.
func Range(page, pageSize int) (from, to int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize > 0 && page-1 > (math.MaxInt-pageSize)/pageSize {
		page = (math.MaxInt-pageSize)/pageSize + 1
	}
	from = (page - 1) * pageSize
	to = from + pageSize - 1
	return from, to
}

// TotalPages is ceil(totalCount / pageSize).
func TotalPages(totalCount int64, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((totalCount + size - 1) / size)
}

// ParsePage reads a page query value. Empty, malformed and non-positive
// values all mean the first page; larger values are clamped to MaxPage.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return min(page, MaxPage)
}

// Pager tracks the current page of a list whose page count is known.
type Pager struct {
	current    int
	totalPages int
}

func NewPager(totalPages int) *Pager {
	p := &Pager{current: 1}
	p.SetTotalPages(totalPages)
	return p
}

func (p *Pager) CurrentPage() int { return p.current }
func (p *Pager) TotalPages() int  { return p.totalPages }

// SetTotalPages updates the page count and pulls the current page back into
// range when the list shrank.
func (p *Pager) SetTotalPages(n int) {
	if n < 0 {
		n = 0
	}
	p.totalPages = n
	switch {
	case n == 0:
		p.current = 1
	case p.current > n:
		p.current = n
	}
}

// GoToPage moves to page when it lies in [1, TotalPages] and reports whether
// it moved. Out-of-range pages leave the current page unchanged.
func (p *Pager) GoToPage(page int) bool {
	if page < 1 || page > p.totalPages {
		return false
	}
	p.current = page
	return true
}

func (p *Pager) NextPage() bool { return p.GoToPage(p.current + 1) }
func (p *Pager) PrevPage() bool { return p.GoToPage(p.current - 1) }

func (p *Pager) HasNext() bool { return p.current < p.totalPages }
func (p *Pager) HasPrev() bool { return p.current > 1 }
