package view

import "slices"

// Direction of the active sort key.
type Direction int

const (
	Ascending Direction = iota + 1
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return ""
	}
}

// ParseDirection accepts "asc" and "desc"; anything else is Ascending.
func ParseDirection(s string) Direction {
	if s == "desc" {
		return Descending
	}
	return Ascending
}

// SortKey is the single active (column, direction) pair.
type SortKey struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// cycleSort advances the tri-state cycle for id:
// unsorted -> ascending -> descending -> unsorted. Activating a different
// column replaces the current key.
func cycleSort(current *SortKey, id string) *SortKey {
	if current == nil || current.Column != id {
		return &SortKey{Column: id, Direction: Ascending}
	}
	if current.Direction == Ascending {
		return &SortKey{Column: id, Direction: Descending}
	}
	return nil
}

// Sort orders rows in place by key. The sort is stable in both directions
// so rows that compare equal keep their incoming order.
func Sort[R any](rows []R, cols Columns[R], key *SortKey) {
	if key == nil {
		return
	}
	c, ok := cols.Lookup(key.Column)
	if !ok || !c.Sortable() {
		return
	}
	desc := key.Direction == Descending
	slices.SortStableFunc(rows, func(a, b R) int {
		r := c.Compare(a, b)
		if desc {
			return -r
		}
		return r
	})
}

// Indicator is the header marker for column id under key.
func Indicator(key *SortKey, id string) string {
	if key == nil || key.Column != id {
		return ""
	}
	if key.Direction == Descending {
		return "▼"
	}
	return "▲"
}
