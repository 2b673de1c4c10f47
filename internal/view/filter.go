package view

import "strings"

// FilterPolicy selects how the filter text is applied. It is fixed when a
// Store is built; use GlobalText or PerColumn.
type FilterPolicy interface {
	// columns returns the filterable column ids, nil for GlobalText.
	columns() []string
	String() string
}

type globalText struct{}

func (globalText) columns() []string { return nil }
func (globalText) String() string    { return "global" }

type perColumn struct {
	ids []string
}

func (p perColumn) columns() []string { return p.ids }
func (p perColumn) String() string    { return "columns(" + strings.Join(p.ids, ",") + ")" }

// GlobalText matches a row when any of its cell values contains the query,
// ignoring case.
func GlobalText() FilterPolicy { return globalText{} }

// PerColumn installs the same query on every listed column; a row matches
// when every installed column predicate accepts it.
func PerColumn(ids ...string) FilterPolicy {
	cp := make([]string, len(ids))
	copy(cp, ids)
	return perColumn{ids: cp}
}

// ColumnFilter is the filter value installed on one column.
type ColumnFilter struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// broadcast builds the per-column filter values for query. Ids that are
// not registered are skipped.
func broadcast[R any](policy FilterPolicy, cols Columns[R], query string) []ColumnFilter {
	ids := policy.columns()
	if ids == nil || query == "" {
		return nil
	}
	out := make([]ColumnFilter, 0, len(ids))
	for _, id := range ids {
		if _, ok := cols.Lookup(id); !ok {
			continue
		}
		out = append(out, ColumnFilter{Column: id, Value: query})
	}
	return out
}

// Filter returns the rows of src that match state's filter. src is not
// modified and the result is always a fresh slice in source order.
func Filter[R any](src []R, cols Columns[R], policy FilterPolicy, state State) []R {
	out := make([]R, 0, len(src))
	switch policy.(type) {
	case perColumn:
		for _, row := range src {
			if matchesColumns(row, cols, state.Filters) {
				out = append(out, row)
			}
		}
	default:
		if state.Query == "" {
			return append(out, src...)
		}
		q := strings.ToLower(state.Query)
		for _, row := range src {
			if matchesAny(row, cols, q) {
				out = append(out, row)
			}
		}
	}
	return out
}

func matchesAny[R any](row R, cols Columns[R], lowered string) bool {
	for _, c := range cols.list {
		s, ok := Stringify(c.Value(row))
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(s), lowered) {
			return true
		}
	}
	return false
}

func matchesColumns[R any](row R, cols Columns[R], filters []ColumnFilter) bool {
	for _, f := range filters {
		c, ok := cols.Lookup(f.Column)
		if !ok {
			continue
		}
		if !c.Matches(row, f.Value) {
			return false
		}
	}
	return true
}
