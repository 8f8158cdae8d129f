// Package listview holds the filter and pagination contract shared by every
// list page: the portal parses it from the request, the API applies it to stores.
package listview

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearchDebounce is how long the search box waits after the last keystroke
// before fetching.
const SearchDebounce = 350 * time.Millisecond

// DefaultPageSize is the default number of rows per page.
const DefaultPageSize = 20

// PageSizes are the allowed rows-per-page values.
var PageSizes = []int{10, 20, 50, 100}

// State is the filter and paging state of one list view.
// INVARIANT: changing Query, Status, a filter or PageSize resets Page to 1
type State struct {
	Query    string
	Status   string
	Page     int // 1-indexed
	PageSize int
	Sort     string
	Dir      string // "asc" or "desc"
	Filters  map[string]string
}

// Options restricts what ParseState accepts.
type Options struct {
	SortColumns     []string
	FilterKeys      []string
	DefaultPageSize int
}

// ParseState reads list state from URL query values.
// Hidden prev_q / prev_status / prev_page_size / prev_<filter> fields carry the
// state the page was rendered with; if any differs from the submitted value the
// page resets to 1.
// PRE: none
// POST: returns a State with Page >= 1 and a PageSize from PageSizes
func ParseState(q url.Values, opts Options) State {
	s := State{
		Query:   strings.TrimSpace(q.Get("q")),
		Status:  q.Get("status"),
		Filters: make(map[string]string),
	}

	s.Page, _ = strconv.Atoi(q.Get("page"))
	if s.Page < 1 {
		s.Page = 1
	}

	def := opts.DefaultPageSize
	if !ValidPageSize(def) {
		def = DefaultPageSize
	}
	s.PageSize, _ = strconv.Atoi(q.Get("page_size"))
	if !ValidPageSize(s.PageSize) {
		s.PageSize = def
	}

	if contains(opts.SortColumns, q.Get("sort")) {
		s.Sort = q.Get("sort")
		s.Dir = "asc"
		if q.Get("dir") == "desc" {
			s.Dir = "desc"
		}
	}

	changed := filterChanged(q, "q", s.Query) || filterChanged(q, "status", s.Status) ||
		filterChanged(q, "page_size", strconv.Itoa(s.PageSize))
	for _, key := range opts.FilterKeys {
		v := strings.TrimSpace(q.Get(key))
		if v != "" {
			s.Filters[key] = v
		}
		changed = changed || filterChanged(q, key, v)
	}
	if changed {
		s.Page = 1
	}
	return s
}

// filterChanged reports whether a prev_<key> field is present and differs from current.
func filterChanged(q url.Values, key, current string) bool {
	prev, ok := q["prev_"+key]
	if !ok || len(prev) == 0 {
		return false
	}
	return strings.TrimSpace(prev[0]) != current
}

// WithQuery returns s with a new search query; the page resets to 1 when it changes.
func (s State) WithQuery(query string) State {
	query = strings.TrimSpace(query)
	if query != s.Query {
		s.Query = query
		s.Page = 1
	}
	return s
}

// WithStatus returns s with a new status filter; the page resets to 1 when it changes.
func (s State) WithStatus(status string) State {
	if status != s.Status {
		s.Status = status
		s.Page = 1
	}
	return s
}

// WithFilter returns s with filter key set to value; the page resets to 1 when it changes.
func (s State) WithFilter(key, value string) State {
	if s.Filters[key] == value {
		return s
	}
	filters := make(map[string]string, len(s.Filters)+1)
	for k, v := range s.Filters {
		filters[k] = v
	}
	if value == "" {
		delete(filters, key)
	} else {
		filters[key] = value
	}
	s.Filters = filters
	s.Page = 1
	return s
}

// WithPage returns s at page p (clamped to >= 1).
func (s State) WithPage(p int) State {
	if p < 1 {
		p = 1
	}
	s.Page = p
	return s
}

// WithPageSize returns s with a new page size; the page resets to 1 when it changes.
func (s State) WithPageSize(n int) State {
	if ValidPageSize(n) && n != s.PageSize {
		s.PageSize = n
		s.Page = 1
	}
	return s
}

// WithSort returns s sorted by col; choosing the current column flips the direction.
func (s State) WithSort(col string) State {
	if s.Sort == col {
		if s.Dir == "asc" {
			s.Dir = "desc"
		} else {
			s.Dir = "asc"
		}
		return s
	}
	s.Sort = col
	s.Dir = "asc"
	return s
}

// Offset returns the row offset of the current page.
func (s State) Offset() int {
	return (s.Page - 1) * s.PageSize
}

// Values encodes s as query values, omitting defaults.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Query != "" {
		v.Set("q", s.Query)
	}
	if s.Status != "" {
		v.Set("status", s.Status)
	}
	for k, val := range s.Filters {
		v.Set(k, val)
	}
	if s.Page > 1 {
		v.Set("page", strconv.Itoa(s.Page))
	}
	if s.PageSize != 0 && s.PageSize != DefaultPageSize {
		v.Set("page_size", strconv.Itoa(s.PageSize))
	}
	if s.Sort != "" {
		v.Set("sort", s.Sort)
		v.Set("dir", s.Dir)
	}
	return v
}

// URL returns path with s encoded as its query string.
func (s State) URL(path string) string {
	if enc := s.Values().Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PageSize   int // rows per page
	Total      int // total matching rows
	TotalPages int // max(1, ceil(Total / PageSize))
}

// TotalPages returns max(1, ceil(total / pageSize)).
// PRE: pageSize > 0
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	n := (total + pageSize - 1) / pageSize
	if n < 1 {
		return 1
	}
	return n
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: returns PageInfo with TotalPages computed; Page clamped to [1, TotalPages]
func NewPageInfo(page, pageSize, total int) PageInfo {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPages := TotalPages(total, pageSize)
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the SQL OFFSET for the current page.
// POST: Returns (Page-1) * PageSize
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// HasPrev reports whether the "previous" control is enabled.
func (p PageInfo) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether the "next" control is enabled.
func (p PageInfo) HasNext() bool {
	return p.Page < p.TotalPages
}

// StartRow returns the 1-indexed first row number on the current page.
// POST: Returns 0 if Total is 0, otherwise Offset+1
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
// POST: Returns min(Offset+PageSize, Total)
func (p PageInfo) EndRow() int {
	end := p.Offset() + p.PageSize
	if end > p.Total {
		end = p.Total
	}
	return end
}

// PageNumbers returns at most 5 page numbers centred on the current page.
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	start := p.Page - maxButtons/2
	if start < 1 {
		start = 1
	}
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - maxButtons + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination returns true if there is more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, opt := range PageSizes {
		if n == opt {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
