package services

import "strconv"

// PageEllipsis marks a gap in a page range
const PageEllipsis = 0

// Pagination describes one page of a listing
type Pagination struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
	// PageRange lists the page links to show; PageEllipsis entries stand for skipped pages
	PageRange []int `json:"pageRange"`
}

// Offset returns the row offset of the page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns the page count of a listing. An empty listing still has one page.
func TotalPages(totalItems int64, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 1
	}
	return int((totalItems + int64(pageSize) - 1) / int64(pageSize))
}

// ResolvePage parses a requested page. Anything that is not a number gives
// the first page; numbers outside 1..totalPages give the last page.
func ResolvePage(raw string, totalPages int) int {
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if page < 1 || page > totalPages {
		return totalPages
	}
	return page
}

// SmartPageRange returns the pages within window of current, plus the first
// and last page, with PageEllipsis wherever pages were skipped.
// For current=10 of 20 with window 2: 1 … 8 9 10 11 12 … 20
func SmartPageRange(current, totalPages, window int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	start := max(1, current-window)
	end := min(totalPages, current+window)

	pages := make([]int, 0, end-start+5)
	if start > 1 {
		pages = append(pages, 1)
		if start > 2 {
			pages = append(pages, PageEllipsis)
		}
	}
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	if end < totalPages {
		if end < totalPages-1 {
			pages = append(pages, PageEllipsis)
		}
		pages = append(pages, totalPages)
	}
	return pages
}

// NewPagination resolves the requested page against the listing size
func NewPagination(rawPage string, totalItems int64, pageSize, window int) Pagination {
	totalPages := TotalPages(totalItems, pageSize)
	page := ResolvePage(rawPage, totalPages)
	return Pagination{
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
		PageRange:   SmartPageRange(page, totalPages, window),
	}
}
