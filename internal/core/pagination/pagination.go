// Package pagination computes catalog page boundaries. It never fails: any
// requested page outside [1, TotalPages] is clamped to the nearest valid page.
package pagination

// DefaultPageSize is used when a Paginator is built with a non-positive size.
const DefaultPageSize = 12

// Page describes one slice of a listing.
type Page struct {
	TotalCount    int `json:"total_count"`
	RequestedPage int `json:"requested_page"`
	Page          int `json:"page"`
	PageSize      int `json:"page_size"`
	BeginIndex    int `json:"begin_index"`
	// EndIndex is exclusive; EndIndex-BeginIndex is the number of rows on the page.
	EndIndex   int `json:"end_index"`
	TotalPages int `json:"total_pages"`
}

// Count is the number of rows the page holds.
func (p Page) Count() int {
	return p.EndIndex - p.BeginIndex
}

func (p Page) HasPrevious() bool {
	return p.Page > 1
}

func (p Page) HasNext() bool {
	return p.Page < p.TotalPages
}

// Paginator carries the configured page size.
type Paginator struct {
	pageSize int
}

func New(pageSize int) Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Paginator{pageSize: pageSize}
}

func (p Paginator) PageSize() int {
	return p.pageSize
}

// Paginate returns the page for totalCount rows and the requested page number.
func (p Paginator) Paginate(totalCount, requestedPage int) Page {
	if totalCount < 0 {
		totalCount = 0
	}

	totalPages := (totalCount + p.pageSize - 1) / p.pageSize

	page := requestedPage
	if page < 1 {
		page = 1
	}
	if last := max(totalPages, 1); page > last {
		page = last
	}

	begin := (page - 1) * p.pageSize
	end := min(begin+p.pageSize, totalCount)

	return Page{
		TotalCount:    totalCount,
		RequestedPage: requestedPage,
		Page:          page,
		PageSize:      p.pageSize,
		BeginIndex:    begin,
		EndIndex:      end,
		TotalPages:    totalPages,
	}
}

// Paginate uses DefaultPageSize.
func Paginate(totalCount, requestedPage int) Page {
	return New(DefaultPageSize).Paginate(totalCount, requestedPage)
}
