package view

// Grid is a snapshot rendered to text, ready for a printer or a terminal
// UI that does not know the row type.
type Grid struct {
	IDs        []string
	Headers    []string
	Kinds      []Kind
	Sortable   []bool
	Indicators []string
	Cells      [][]string
	// Keys holds the entity id of each row when the owner sets it.
	Keys []string

	Mode            Mode
	Matched         int
	Page            int
	PageSize        int
	TotalPages      int
	CanPreviousPage bool
	CanNextPage     bool

	Loading bool
	Err     error
	Query   string
}

// Grid renders every visible row through its columns.
func (s Snapshot[R]) Grid() Grid {
	cols := s.Columns.list
	g := Grid{
		IDs:             make([]string, len(cols)),
		Headers:         make([]string, len(cols)),
		Kinds:           make([]Kind, len(cols)),
		Sortable:        make([]bool, len(cols)),
		Indicators:      make([]string, len(cols)),
		Cells:           make([][]string, len(s.Rows)),
		Mode:            s.Mode,
		Matched:         s.Matched,
		Page:            s.Page,
		PageSize:        s.PageSize,
		TotalPages:      s.TotalPages,
		CanPreviousPage: s.CanPreviousPage,
		CanNextPage:     s.CanNextPage,
		Loading:         s.Loading,
		Err:             s.Err,
		Query:           s.Query,
	}
	for i, c := range cols {
		g.IDs[i] = c.id
		g.Headers[i] = c.header
		g.Kinds[i] = c.kind
		g.Sortable[i] = c.Sortable()
		if c.Sortable() {
			g.Indicators[i] = Indicator(s.Sort, c.id)
		}
	}
	for i, row := range s.Rows {
		g.Cells[i] = s.Columns.Cells(row)
	}
	return g
}

// DataColumns lists the indexes of columns that carry data, skipping row
// action columns.
func (g Grid) DataColumns() []int {
	out := make([]int, 0, len(g.IDs))
	for i, k := range g.Kinds {
		if k != KindAction {
			out = append(out, i)
		}
	}
	return out
}

// Empty reports whether a resolved grid has no rows.
func (g Grid) Empty() bool {
	return !g.Loading && g.Err == nil && len(g.Cells) == 0
}

// Status is the state a renderer must show in place of, or around, rows.
type Status int

const (
	StatusRows Status = iota
	StatusLoading
	StatusError
	StatusEmpty
)

// Status picks what to render. An error wins over loading.
func (g Grid) Status() Status {
	switch {
	case g.Err != nil:
		return StatusError
	case g.Loading:
		return StatusLoading
	case len(g.Cells) == 0:
		return StatusEmpty
	default:
		return StatusRows
	}
}
