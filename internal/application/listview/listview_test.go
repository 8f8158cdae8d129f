package listview

import (
	"net/url"
	"testing"
)

// TestParseState_Defaults verifies defaults when no query values are provided.
func TestParseState_Defaults(t *testing.T) {
	s := ParseState(url.Values{}, Options{})
	if s.Page != 1 || s.PageSize != DefaultPageSize || s.Query != "" || s.Sort != "" {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

// TestParseState_SchoolDefaultPageSize verifies a configured default page size is used.
func TestParseState_SchoolDefaultPageSize(t *testing.T) {
	s := ParseState(url.Values{}, Options{DefaultPageSize: 50})
	if s.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", s.PageSize)
	}
	s = ParseState(url.Values{"page_size": {"25"}}, Options{DefaultPageSize: 50})
	if s.PageSize != 50 {
		t.Errorf("invalid page_size should fall back, got %d", s.PageSize)
	}
}

// TestParseState_Valid verifies parsing of page, size, sort and filters.
func TestParseState_Valid(t *testing.T) {
	q := url.Values{"page": {"3"}, "page_size": {"10"}, "q": {" swim "}, "status": {"draft"},
		"sort": {"title"}, "dir": {"desc"}, "skill": {"fitness"}, "bogus": {"x"}}
	s := ParseState(q, Options{SortColumns: []string{"title"}, FilterKeys: []string{"skill"}})
	if s.Page != 3 || s.PageSize != 10 || s.Query != "swim" || s.Status != "draft" {
		t.Errorf("unexpected state: %+v", s)
	}
	if s.Sort != "title" || s.Dir != "desc" {
		t.Errorf("sort = %s %s", s.Sort, s.Dir)
	}
	if s.Filters["skill"] != "fitness" || s.Filters["bogus"] != "" {
		t.Errorf("filters = %v", s.Filters)
	}
}

// TestParseState_DisallowedSort verifies unknown sort columns are dropped.
func TestParseState_DisallowedSort(t *testing.T) {
	s := ParseState(url.Values{"sort": {"password"}, "dir": {"DROP TABLE"}}, Options{SortColumns: []string{"name"}})
	if s.Sort != "" || s.Dir != "" {
		t.Errorf("expected no sort, got %q %q", s.Sort, s.Dir)
	}
}

// TestParseState_FilterChangeResetsPage verifies a submitted filter that differs
// from the rendered one resets the page even when page=N is still present.
func TestParseState_FilterChangeResetsPage(t *testing.T) {
	tests := []struct {
		name     string
		q        url.Values
		wantPage int
	}{
		{name: "query changed", q: url.Values{"page": {"3"}, "q": {"ana"}, "prev_q": {""}}, wantPage: 1},
		{name: "status changed", q: url.Values{"page": {"3"}, "status": {"archived"}, "prev_status": {"active"}}, wantPage: 1},
		{name: "filter changed", q: url.Values{"page": {"3"}, "skill": {"tactics"}, "prev_skill": {"fitness"}}, wantPage: 1},
		{name: "page size changed", q: url.Values{"page": {"3"}, "page_size": {"50"}, "prev_page_size": {"10"}}, wantPage: 1},
		{name: "page size kept", q: url.Values{"page": {"3"}, "page_size": {"10"}, "prev_page_size": {"10"}}, wantPage: 3},
		{name: "nothing changed", q: url.Values{"page": {"3"}, "q": {"ana"}, "prev_q": {"ana"}}, wantPage: 3},
		{name: "no prev fields", q: url.Values{"page": {"3"}, "q": {"ana"}}, wantPage: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseState(tt.q, Options{FilterKeys: []string{"skill"}})
			if s.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", s.Page, tt.wantPage)
			}
		})
	}
}

// TestState_WithQueryResetsPage verifies changing the query from page 3 fetches page 1 next.
func TestState_WithQueryResetsPage(t *testing.T) {
	s := State{Page: 3, PageSize: 10}
	next := s.WithQuery("ben")
	if next.Page != 1 || next.Query != "ben" {
		t.Errorf("WithQuery = %+v, want page 1", next)
	}
	if same := next.WithPage(2).WithQuery("ben"); same.Page != 2 {
		t.Errorf("unchanged query must keep page, got %d", same.Page)
	}
	if st := s.WithStatus("inactive"); st.Page != 1 {
		t.Errorf("WithStatus page = %d, want 1", st.Page)
	}
	if f := s.WithFilter("group", "senior"); f.Page != 1 || f.Filters["group"] != "senior" {
		t.Errorf("WithFilter = %+v", f)
	}
	if ps := s.WithPageSize(50); ps.Page != 1 || ps.PageSize != 50 {
		t.Errorf("WithPageSize = %+v", ps)
	}
	if s.Page != 3 {
		t.Error("receiver must not be mutated")
	}
}

// TestState_WithSortToggles verifies re-selecting a column flips direction.
func TestState_WithSortToggles(t *testing.T) {
	s := State{}.WithSort("name")
	if s.Sort != "name" || s.Dir != "asc" {
		t.Fatalf("first sort = %+v", s)
	}
	if s = s.WithSort("name"); s.Dir != "desc" {
		t.Errorf("second sort dir = %s", s.Dir)
	}
}

// TestState_URL verifies defaults are omitted from the encoded URL.
func TestState_URL(t *testing.T) {
	s := State{Query: "a b", Page: 2, PageSize: DefaultPageSize}
	if got := s.URL("/students"); got != "/students?page=2&q=a+b" {
		t.Errorf("URL = %q", got)
	}
	if got := (State{Page: 1, PageSize: DefaultPageSize}).URL("/students"); got != "/students" {
		t.Errorf("URL = %q", got)
	}
}

// TestNewPageInfo verifies pagination metadata computation.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		total      int
		wantPages  int
		wantPage   int
		wantStart  int
		wantEnd    int
		wantOffset int
	}{
		{"basic", 1, 20, 85, 5, 1, 1, 20, 0},
		{"page2", 2, 20, 85, 5, 2, 21, 40, 20},
		{"lastPage", 5, 20, 85, 5, 5, 81, 85, 80},
		{"pageBeyondTotal", 10, 20, 85, 5, 5, 81, 85, 80},
		{"emptyList", 1, 20, 0, 1, 1, 0, 0, 0},
		{"exactFit", 1, 10, 10, 1, 1, 1, 10, 0},
		{"singleRow", 1, 20, 1, 1, 1, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi := NewPageInfo(tt.page, tt.pageSize, tt.total)
			if pi.TotalPages != tt.wantPages {
				t.Errorf("TotalPages: got %d, want %d", pi.TotalPages, tt.wantPages)
			}
			if pi.Page != tt.wantPage {
				t.Errorf("Page: got %d, want %d", pi.Page, tt.wantPage)
			}
			if pi.StartRow() != tt.wantStart {
				t.Errorf("StartRow: got %d, want %d", pi.StartRow(), tt.wantStart)
			}
			if pi.EndRow() != tt.wantEnd {
				t.Errorf("EndRow: got %d, want %d", pi.EndRow(), tt.wantEnd)
			}
			if pi.Offset() != tt.wantOffset {
				t.Errorf("Offset: got %d, want %d", pi.Offset(), tt.wantOffset)
			}
		})
	}
}

// TestPageInfo_Boundaries verifies prev/next enablement at page edges for
// pageSize=10 and total=25.
func TestPageInfo_Boundaries(t *testing.T) {
	if got := TotalPages(25, 10); got != 3 {
		t.Fatalf("TotalPages(25, 10) = %d, want 3", got)
	}
	for page, want := range map[int][2]bool{1: {false, true}, 2: {true, true}, 3: {true, false}} {
		pi := NewPageInfo(page, 10, 25)
		if pi.HasPrev() != want[0] || pi.HasNext() != want[1] {
			t.Errorf("page %d: HasPrev=%v HasNext=%v, want %v", page, pi.HasPrev(), pi.HasNext(), want)
		}
	}
	if TotalPages(0, 10) != 1 {
		t.Error("empty list must still have one page")
	}
}

// TestPageNumbers verifies page number window generation.
func TestPageNumbers(t *testing.T) {
	tests := []struct {
		name string
		page int
		tot  int
		want []int
	}{
		{"3pages_at1", 1, 3, []int{1, 2, 3}},
		{"10pages_at1", 1, 10, []int{1, 2, 3, 4, 5}},
		{"10pages_at5", 5, 10, []int{3, 4, 5, 6, 7}},
		{"10pages_at10", 10, 10, []int{6, 7, 8, 9, 10}},
		{"1page", 1, 1, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi := PageInfo{Page: tt.page, PageSize: 10, TotalPages: tt.tot, Total: tt.tot * 10}
			got := pi.PageNumbers()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}
