package view

// DefaultPageSize is used when a controller is built with a size below 1.
const DefaultPageSize = 10

// Mode identifies who owns paging.
type Mode int

const (
	ModeClient Mode = iota
	ModeServer
)

func (m Mode) String() string {
	if m == ModeServer {
		return "server"
	}
	return "client"
}

// PageState is the page position held in view state. Index is 1-based.
type PageState struct {
	Index int `json:"index"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// Layout is the result of paging n processed rows.
type Layout struct {
	Start, End  int
	Index       int
	Total       int
	CanPrevious bool
	CanNext     bool
}

// Effect is work a controller asks the store to run once a transition has
// been applied and published, such as asking a data source for a page.
type Effect func()

// PaginationController slices processed rows for display. A Store uses
// exactly one controller for its whole life.
type PaginationController interface {
	Mode() Mode
	PageSize() int
	Initial() PageState
	// Layout computes the visible window over n rows for page.
	Layout(page PageState, n int) Layout
	Previous(page PageState) (PageState, Effect)
	Next(page PageState) (PageState, Effect)
	GoTo(page PageState, index int) (PageState, Effect)
	// Search handles a filter text change.
	Search(page PageState, query string) (PageState, Effect)
	// ForwardsSearch reports whether filter text goes to the data source
	// instead of being applied to the delivered rows.
	ForwardsSearch() bool
	// Reset is applied when sort order or source rows change.
	Reset(page PageState) PageState
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

// ClientPaginationController pages a fully materialised row set.
type ClientPaginationController struct {
	size int
}

var _ PaginationController = (*ClientPaginationController)(nil)

// NewClientPagination returns a controller slicing pages of size rows.
func NewClientPagination(size int) *ClientPaginationController {
	if size < 1 {
		size = DefaultPageSize
	}
	return &ClientPaginationController{size: size}
}

func (c *ClientPaginationController) Mode() Mode    { return ModeClient }
func (c *ClientPaginationController) PageSize() int { return c.size }

func (c *ClientPaginationController) Initial() PageState {
	return PageState{Index: 1, Size: c.size}
}

// TotalPages is ceil(n / size).
func (c *ClientPaginationController) TotalPages(n int) int {
	return (n + c.size - 1) / c.size
}

func (c *ClientPaginationController) Layout(page PageState, n int) Layout {
	total := c.TotalPages(n)
	index := clamp(page.Index, 1, max(1, total))
	start := min((index-1)*c.size, n)
	end := min(start+c.size, n)
	return Layout{
		Start:       start,
		End:         end,
		Index:       index,
		Total:       total,
		CanPrevious: index > 1,
		CanNext:     index < total,
	}
}

func (c *ClientPaginationController) Previous(page PageState) (PageState, Effect) {
	page.Index = clamp(page.Index-1, 1, max(1, page.Total))
	return page, nil
}

func (c *ClientPaginationController) Next(page PageState) (PageState, Effect) {
	page.Index = clamp(page.Index+1, 1, max(1, page.Total))
	return page, nil
}

func (c *ClientPaginationController) GoTo(page PageState, index int) (PageState, Effect) {
	page.Index = clamp(index, 1, max(1, page.Total))
	return page, nil
}

func (c *ClientPaginationController) Search(page PageState, _ string) (PageState, Effect) {
	page.Index = 1
	return page, nil
}

func (c *ClientPaginationController) ForwardsSearch() bool { return false }

func (c *ClientPaginationController) Reset(page PageState) PageState {
	page.Index = 1
	return page
}

// ServerPaginationController delegates paging to a data source. The
// delivered rows are always the current page; the source reports the page
// index and total through the LoadPage transition.
type ServerPaginationController struct {
	size     int
	onPage   func(page int)
	onSearch func(query string)
}

var _ PaginationController = (*ServerPaginationController)(nil)

// NewServerPagination returns a controller that calls onPage whenever a
// different page is requested. When onSearch is non-nil, filter text is
// forwarded to it and the page resets to 1; otherwise filtering stays
// local to the delivered page.
func NewServerPagination(size int, onPage func(page int), onSearch func(query string)) *ServerPaginationController {
	if size < 1 {
		size = DefaultPageSize
	}
	return &ServerPaginationController{size: size, onPage: onPage, onSearch: onSearch}
}

func (s *ServerPaginationController) Mode() Mode    { return ModeServer }
func (s *ServerPaginationController) PageSize() int { return s.size }

func (s *ServerPaginationController) Initial() PageState {
	return PageState{Index: 1, Size: s.size, Total: 1}
}

func (s *ServerPaginationController) Layout(page PageState, n int) Layout {
	total := max(1, page.Total)
	index := clamp(page.Index, 1, total)
	return Layout{
		Start:       0,
		End:         n,
		Index:       index,
		Total:       total,
		CanPrevious: index > 1,
		CanNext:     index < total,
	}
}

func (s *ServerPaginationController) request(page PageState, target int) (PageState, Effect) {
	target = clamp(target, 1, max(1, page.Total))
	if target == page.Index {
		return page, nil
	}
	page.Index = target
	if s.onPage == nil {
		return page, nil
	}
	return page, func() { s.onPage(target) }
}

func (s *ServerPaginationController) Previous(page PageState) (PageState, Effect) {
	return s.request(page, max(1, page.Index-1))
}

func (s *ServerPaginationController) Next(page PageState) (PageState, Effect) {
	return s.request(page, min(max(1, page.Total), page.Index+1))
}

func (s *ServerPaginationController) GoTo(page PageState, index int) (PageState, Effect) {
	return s.request(page, index)
}

func (s *ServerPaginationController) Search(page PageState, query string) (PageState, Effect) {
	if s.onSearch == nil {
		return page, nil
	}
	page.Index = 1
	return page, func() { s.onSearch(query) }
}

func (s *ServerPaginationController) ForwardsSearch() bool { return s.onSearch != nil }

func (s *ServerPaginationController) Reset(page PageState) PageState { return page }
