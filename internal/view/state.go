package view

import "slices"

// State is the view state of one table: sort key, filter text and page.
type State struct {
	Sort    *SortKey       `json:"sort,omitempty"`
	Query   string         `json:"query,omitempty"`
	Filters []ColumnFilter `json:"filters,omitempty"`
	Page    PageState      `json:"page"`
}

func (s State) clone() State {
	out := s
	if s.Sort != nil {
		k := *s.Sort
		out.Sort = &k
	}
	out.Filters = slices.Clone(s.Filters)
	return out
}

// Snapshot is everything a renderer needs for one frame.
type Snapshot[R any] struct {
	Columns Columns[R]
	Mode    Mode

	// Rows is the visible window, in display order.
	Rows []R
	// Matched counts rows that passed the filter. In server mode it only
	// covers the delivered page.
	Matched int

	Page            int
	PageSize        int
	TotalPages      int
	CanPreviousPage bool
	CanNextPage     bool

	Loading bool
	Err     error

	Sort  *SortKey
	Query string
}

// Empty reports whether a resolved snapshot has nothing to show.
func (s Snapshot[R]) Empty() bool {
	return !s.Loading && s.Err == nil && len(s.Rows) == 0
}

// Transition is one of the state changes a Store accepts. The set is
// closed: use ToggleSort, SetFilterText, NextPage, PreviousPage, GoToPage,
// Load, LoadPage, BeginLoading or FailLoading.
type Transition[R any] interface {
	apply(s *Store[R]) Effect
}

type toggleSort[R any] struct{ id string }

// ToggleSort cycles the sort of column id. Unknown or non-sortable
// columns leave the state untouched.
func ToggleSort[R any](id string) Transition[R] { return toggleSort[R]{id: id} }

func (t toggleSort[R]) apply(s *Store[R]) Effect {
	c, ok := s.columns.Lookup(t.id)
	if !ok || !c.Sortable() {
		return nil
	}
	s.state.Sort = cycleSort(s.state.Sort, t.id)
	s.state.Page = s.pager.Reset(s.state.Page)
	return nil
}

type setFilterText[R any] struct{ query string }

// SetFilterText replaces the filter text. Under PerColumn the same value is
// installed on every filterable column.
func SetFilterText[R any](query string) Transition[R] { return setFilterText[R]{query: query} }

func (t setFilterText[R]) apply(s *Store[R]) Effect {
	if t.query == s.state.Query {
		return nil
	}
	s.state.Query = t.query
	s.state.Filters = broadcast(s.policy, s.columns, t.query)
	var eff Effect
	s.state.Page, eff = s.pager.Search(s.state.Page, t.query)
	return eff
}

type nextPage[R any] struct{}

// NextPage moves one page forward, never past the last page.
func NextPage[R any]() Transition[R] { return nextPage[R]{} }

func (nextPage[R]) apply(s *Store[R]) Effect {
	var eff Effect
	s.state.Page, eff = s.pager.Next(s.state.Page)
	return eff
}

type previousPage[R any] struct{}

// PreviousPage moves one page back, never before page 1.
func PreviousPage[R any]() Transition[R] { return previousPage[R]{} }

func (previousPage[R]) apply(s *Store[R]) Effect {
	var eff Effect
	s.state.Page, eff = s.pager.Previous(s.state.Page)
	return eff
}

type goToPage[R any] struct{ index int }

// GoToPage jumps to a page, clamped to the valid range.
func GoToPage[R any](index int) Transition[R] { return goToPage[R]{index: index} }

func (t goToPage[R]) apply(s *Store[R]) Effect {
	var eff Effect
	s.state.Page, eff = s.pager.GoTo(s.state.Page, t.index)
	return eff
}

type load[R any] struct{ rows []R }

// Load replaces the source rows and resolves any pending load.
func Load[R any](rows []R) Transition[R] { return load[R]{rows: rows} }

func (t load[R]) apply(s *Store[R]) Effect {
	s.source = slices.Clone(t.rows)
	s.loading = false
	s.err = nil
	s.state.Page = s.pager.Reset(s.state.Page)
	return nil
}

type loadPage[R any] struct {
	rows  []R
	index int
	total int
}

// LoadPage delivers one page from a data source together with the page
// index it represents and the total page count.
func LoadPage[R any](rows []R, index, total int) Transition[R] {
	return loadPage[R]{rows: rows, index: index, total: total}
}

func (t loadPage[R]) apply(s *Store[R]) Effect {
	s.source = slices.Clone(t.rows)
	s.loading = false
	s.err = nil
	if s.pager.Mode() != ModeServer {
		s.state.Page = s.pager.Reset(s.state.Page)
		return nil
	}
	total := max(1, t.total)
	s.state.Page.Total = total
	s.state.Page.Index = clamp(t.index, 1, total)
	return nil
}

type beginLoading[R any] struct{}

// BeginLoading marks the source as being fetched.
func BeginLoading[R any]() Transition[R] { return beginLoading[R]{} }

func (beginLoading[R]) apply(s *Store[R]) Effect {
	s.loading = true
	return nil
}

type failLoading[R any] struct{ err error }

// FailLoading records a fetch failure. The error replaces the table body
// until the next successful load.
func FailLoading[R any](err error) Transition[R] { return failLoading[R]{err: err} }

func (t failLoading[R]) apply(s *Store[R]) Effect {
	s.loading = false
	s.err = t.err
	return nil
}
