// Package view derives the visible slice of a table from a row collection,
// a set of column behaviours and the current sort, filter and page state.
//
// The pipeline is always Filter, then Sort, then Paginate. It is rerun in
// full by Store on every state transition; nothing is patched in place and
// no row passed in is ever modified.
package view

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyColumnID   = errors.New("column id must not be empty")
	ErrDuplicateColumn = errors.New("duplicate column id")
)

// Kind is the closed set of column behaviours.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindComposite
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindComposite:
		return "composite"
	case KindAction:
		return "action"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DateLayout is how date columns render and how dates are matched by text.
const DateLayout = "Jan 2, 2006"

// Column describes one table column over rows of type R.
type Column[R any] struct {
	id       string
	header   string
	kind     Kind
	sortable bool
	label    string

	value   func(R) any
	compare func(a, b R) int
	match   func(row R, query string) bool
	render  func(R) string
}

// Option customises a column at registration.
type Option[R any] func(*Column[R])

// WithCompare replaces the kind's default comparator. fn must return
// -1, 0 or 1.
func WithCompare[R any](fn func(a, b R) int) Option[R] {
	return func(c *Column[R]) { c.compare = fn }
}

// WithMatch replaces the kind's default per-column predicate.
func WithMatch[R any](fn func(row R, query string) bool) Option[R] {
	return func(c *Column[R]) { c.match = fn }
}

// WithRender replaces the kind's default cell text.
func WithRender[R any](fn func(R) string) Option[R] {
	return func(c *Column[R]) { c.render = fn }
}

// WithSortable toggles header sort interaction for the column.
func WithSortable[R any](sortable bool) Option[R] {
	return func(c *Column[R]) { c.sortable = sortable }
}

// NewTextColumn registers a column whose value is a plain string.
func NewTextColumn[R any](id, header string, value func(R) string, opts ...Option[R]) *Column[R] {
	c := &Column[R]{
		id:       id,
		header:   header,
		kind:     KindText,
		sortable: true,
		value:    func(r R) any { return value(r) },
		compare:  func(a, b R) int { return CompareText(value(a), value(b)) },
		match:    func(r R, q string) bool { return ContainsFold(value(r), q) },
		render:   value,
	}
	return c.apply(opts)
}

// NewDateColumn registers a column whose value is a timestamp. Rows are
// ordered by epoch.
func NewDateColumn[R any](id, header string, value func(R) time.Time, opts ...Option[R]) *Column[R] {
	c := &Column[R]{
		id:       id,
		header:   header,
		kind:     KindDate,
		sortable: true,
		value:    func(r R) any { return value(r) },
		compare:  func(a, b R) int { return CompareTime(value(a), value(b)) },
		match:    func(r R, q string) bool { return ContainsFold(FormatDate(value(r)), q) },
		render:   func(r R) string { return FormatDate(value(r)) },
	}
	return c.apply(opts)
}

// NewCompositeColumn registers a column built from several fields of a row.
// text returns the concatenated searchable text, which is also the default
// sort key and cell value.
func NewCompositeColumn[R any](id, header string, text func(R) string, opts ...Option[R]) *Column[R] {
	c := &Column[R]{
		id:       id,
		header:   header,
		kind:     KindComposite,
		sortable: true,
		value:    func(r R) any { return text(r) },
		compare:  func(a, b R) int { return CompareText(text(a), text(b)) },
		match:    func(r R, q string) bool { return ContainsFold(text(r), q) },
		render:   text,
	}
	return c.apply(opts)
}

// NewActionColumn registers a column that only carries row actions. It is
// never sortable, has no value and never matches a filter.
func NewActionColumn[R any](id, header, label string) *Column[R] {
	return &Column[R]{
		id:      id,
		header:  header,
		kind:    KindAction,
		label:   label,
		value:   func(R) any { return nil },
		compare: func(R, R) int { return 0 },
		match:   func(R, string) bool { return false },
		render:  func(R) string { return label },
	}
}

func (c *Column[R]) apply(opts []Option[R]) *Column[R] {
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Column[R]) ID() string     { return c.id }
func (c *Column[R]) Header() string { return c.header }
func (c *Column[R]) Kind() Kind     { return c.kind }

// Sortable reports whether header interactions may sort by this column.
func (c *Column[R]) Sortable() bool {
	return c.kind != KindAction && c.sortable
}

// Value is the raw cell value used by the global text filter.
func (c *Column[R]) Value(row R) any { return c.value(row) }

// Compare orders two rows by this column.
func (c *Column[R]) Compare(a, b R) int { return sign(c.compare(a, b)) }

// Matches applies the column's predicate. An empty query matches every row.
func (c *Column[R]) Matches(row R, query string) bool {
	if query == "" {
		return true
	}
	return c.match(row, query)
}

// Render returns the cell text for row.
func (c *Column[R]) Render(row R) string { return c.render(row) }

// Columns is an ordered, id-unique set of columns.
type Columns[R any] struct {
	list  []*Column[R]
	index map[string]int
}

// NewColumns validates ids and keeps the registration order.
func NewColumns[R any](cols ...*Column[R]) (Columns[R], error) {
	set := Columns[R]{
		list:  make([]*Column[R], 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for _, c := range cols {
		if strings.TrimSpace(c.id) == "" {
			return Columns[R]{}, ErrEmptyColumnID
		}
		if _, dup := set.index[c.id]; dup {
			return Columns[R]{}, fmt.Errorf("%w: %s", ErrDuplicateColumn, c.id)
		}
		set.index[c.id] = len(set.list)
		set.list = append(set.list, c)
	}
	return set, nil
}

// MustColumns is NewColumns for static registrations.
func MustColumns[R any](cols ...*Column[R]) Columns[R] {
	set, err := NewColumns(cols...)
	if err != nil {
		panic(err)
	}
	return set
}

// Lookup returns the column with the given id.
func (cs Columns[R]) Lookup(id string) (*Column[R], bool) {
	i, ok := cs.index[id]
	if !ok {
		return nil, false
	}
	return cs.list[i], true
}

// All returns the columns in registration order.
func (cs Columns[R]) All() []*Column[R] {
	out := make([]*Column[R], len(cs.list))
	copy(out, cs.list)
	return out
}

func (cs Columns[R]) Len() int { return len(cs.list) }

// Headers returns the header labels in order.
func (cs Columns[R]) Headers() []string {
	out := make([]string, len(cs.list))
	for i, c := range cs.list {
		out[i] = c.header
	}
	return out
}

// Cells renders one row in column order.
func (cs Columns[R]) Cells(row R) []string {
	out := make([]string, len(cs.list))
	for i, c := range cs.list {
		out[i] = c.Render(row)
	}
	return out
}

// FormatDate renders a timestamp the way date columns show it.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ContainsFold reports whether s contains query, ignoring case.
func ContainsFold(s, query string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(query))
}
