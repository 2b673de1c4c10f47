package view

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name   string
	Team   string
	Joined time.Time
	Note   *string
}

func day(n int) time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func personColumns() Columns[person] {
	return MustColumns(
		NewTextColumn("name", "Name", func(p person) string { return p.Name }),
		NewTextColumn("team", "Team", func(p person) string { return p.Team }),
		NewDateColumn("joined", "Joined", func(p person) time.Time { return p.Joined }),
		NewActionColumn[person]("actions", "", "…"),
	)
}

func names(rows []person) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func numbered(n int) []person {
	rows := make([]person, n)
	for i := range rows {
		rows[i] = person{Name: fmt.Sprintf("row%02d", i+1), Team: "core", Joined: day(i)}
	}
	return rows
}

func TestClientPaginationScenario(t *testing.T) {
	s := NewStore(personColumns(), GlobalText(), NewClientPagination(10))
	snap := s.Mutate(Load(numbered(25)))

	assert.Equal(t, 3, snap.TotalPages)
	assert.Equal(t, 1, snap.Page)
	assert.Len(t, snap.Rows, 10)
	assert.Equal(t, "row01", snap.Rows[0].Name)
	assert.False(t, snap.CanPreviousPage)
	assert.True(t, snap.CanNextPage)

	snap = s.Mutate(NextPage[person]())
	assert.Equal(t, 2, snap.Page)
	assert.Equal(t, "row11", snap.Rows[0].Name)
	assert.Equal(t, "row20", snap.Rows[9].Name)

	snap = s.Mutate(NextPage[person]())
	assert.Equal(t, 3, snap.Page)
	assert.Equal(t, []string{"row21", "row22", "row23", "row24", "row25"}, names(snap.Rows))
	assert.False(t, snap.CanNextPage)
	assert.True(t, snap.CanPreviousPage)

	snap = s.Mutate(NextPage[person]())
	assert.Equal(t, 3, snap.Page, "next on the last page stays put")

	snap = s.Mutate(GoToPage[person](-4))
	assert.Equal(t, 1, snap.Page)
	snap = s.Mutate(PreviousPage[person]())
	assert.Equal(t, 1, snap.Page)
}

func TestClientPagesCoverEveryRowOnce(t *testing.T) {
	tests := []struct {
		rows int
		size int
	}{
		{rows: 0, size: 10},
		{rows: 1, size: 10},
		{rows: 10, size: 10},
		{rows: 25, size: 10},
		{rows: 7, size: 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_by_%d", tt.rows, tt.size), func(t *testing.T) {
			src := numbered(tt.rows)
			s := NewStore(personColumns(), GlobalText(), NewClientPagination(tt.size))
			snap := s.Mutate(Load(src))

			var seen []string
			for {
				seen = append(seen, names(snap.Rows)...)
				if !snap.CanNextPage {
					break
				}
				snap = s.Mutate(NextPage[person]())
			}
			assert.Equal(t, names(src), append([]string{}, seen...))
		})
	}
}

func TestGlobalTextFilter(t *testing.T) {
	src := []person{{Name: "Alice"}, {Name: "Bob"}}
	s := NewStore(personColumns(), GlobalText(), NewClientPagination(10))
	s.Mutate(Load(src))

	snap := s.Mutate(SetFilterText[person]("ali"))
	assert.Equal(t, []string{"Alice"}, names(snap.Rows))

	snap = s.Mutate(SetFilterText[person](""))
	assert.Equal(t, []string{"Alice", "Bob"}, names(snap.Rows))
}

func TestGlobalTextIgnoresNilValues(t *testing.T) {
	note := "likes tea"
	cols := MustColumns(
		NewTextColumn("name", "Name", func(p person) string { return p.Name }),
		NewCompositeColumn("note", "Note", func(p person) string {
			if p.Note == nil {
				return ""
			}
			return *p.Note
		}),
		NewActionColumn[person]("actions", "", "open"),
	)
	src := []person{{Name: "Ann", Note: &note}, {Name: "Ben"}}

	got := Filter(src, cols, GlobalText(), State{Query: "tea"})
	assert.Equal(t, []string{"Ann"}, names(got))

	got = Filter(src, cols, GlobalText(), State{Query: "open"})
	assert.Empty(t, got, "action columns carry no value")
}

func TestFilterIsIdempotent(t *testing.T) {
	cols := personColumns()
	src := []person{
		{Name: "Alice", Team: "ops"},
		{Name: "Malik", Team: "core"},
		{Name: "Bob", Team: "Alpha"},
		{Name: "Zed", Team: "infra"},
	}

	for _, q := range []string{"", "al", "ALI", "zzz", "o"} {
		st := State{Query: q}
		once := Filter(src, cols, GlobalText(), st)
		twice := Filter(once, cols, GlobalText(), st)
		assert.Equal(t, once, twice, "query %q", q)
	}
}

func TestPerColumnBroadcast(t *testing.T) {
	s := NewStore(personColumns(), PerColumn("name", "team", "missing"), NewClientPagination(10))
	s.Mutate(Load([]person{
		{Name: "Ada", Team: "adapters"},
		{Name: "Ada", Team: "core"},
		{Name: "Cy", Team: "ada"},
	}))

	snap := s.Mutate(SetFilterText[person]("ada"))
	assert.Equal(t, []ColumnFilter{{Column: "name", Value: "ada"}, {Column: "team", Value: "ada"}}, s.State().Filters)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "adapters", snap.Rows[0].Team)

	snap = s.Mutate(SetFilterText[person](""))
	assert.Empty(t, s.State().Filters)
	assert.Len(t, snap.Rows, 3)
}

func TestFilterShrinkResetsPage(t *testing.T) {
	s := NewStore(personColumns(), GlobalText(), NewClientPagination(10))
	s.Mutate(Load(numbered(25)))
	s.Mutate(GoToPage[person](3))

	snap := s.Mutate(SetFilterText[person]("row2"))
	assert.Equal(t, 1, snap.Page)
	assert.Equal(t, 1, snap.TotalPages)
	assert.Len(t, snap.Rows, 6)
}

func TestSortTriState(t *testing.T) {
	src := []person{{Name: "Carol"}, {Name: "alice"}, {Name: "Bob"}}
	s := NewStore(personColumns(), GlobalText(), NewClientPagination(10))
	s.Mutate(Load(src))

	snap := s.Mutate(ToggleSort[person]("name"))
	assert.Equal(t, []string{"alice", "Bob", "Carol"}, names(snap.Rows))
	assert.Equal(t, &SortKey{Column: "name", Direction: Ascending}, snap.Sort)

	snap = s.Mutate(ToggleSort[person]("name"))
	assert.Equal(t, []string{"Carol", "Bob", "alice"}, names(snap.Rows))

	snap = s.Mutate(ToggleSort[person]("name"))
	assert.Nil(t, snap.Sort)
	assert.Equal(t, names(src), names(snap.Rows))
}

func TestSortReplacesOtherColumn(t *testing.T) {
	s := NewStore(personColumns(), GlobalText(), NewClientPagination(10))
	s.Mutate(Load([]person{{Name: "b", Joined: day(1)}, {Name: "a", Joined: day(2)}}))

	s.Mutate(ToggleSort[person]("name"))
	snap := s.Mutate(ToggleSort[person]("joined"))
	assert.Equal(t, &SortKey{Column: "joined", Direction: Ascending}, snap.Sort)
	assert.Equal(t, []string{"b", "a"}, names(snap.Rows))
}

func TestSortExcludesUnsortableColumns(t *testing.T) {
	cols := MustColumns(
		NewTextColumn("name", "Name", func(p person) string { return p.Name }),
		NewTextColumn("team", "Team", func(p person) string { return p.Team }, WithSortable[person](false)),
		NewActionColumn[person]("actions", "", "…"),
	)
	s := NewStore(cols, GlobalText(), NewClientPagination(10))
	s.Mutate(Load([]person{{Name: "b", Team: "z"}, {Name: "a", Team: "y"}}))
	s.Mutate(ToggleSort[person]("name"))
	before := s.State()

	for i := 0; i < 4; i++ {
		s.Mutate(ToggleSort[person]("team"))
		s.Mutate(ToggleSort[person]("actions"))
		s.Mutate(ToggleSort[person]("nope"))
	}
	assert.Equal(t, before, s.State())
	assert.Equal(t, "", Indicator(s.State().Sort, "team"))
	assert.Equal(t, "▲", Indicator(s.State().Sort, "name"))
}

func TestSortIsStable(t *testing.T) {
	src := []person{
		{Name: "x1", Team: "b"},
		{Name: "x2", Team: "a"},
		{Name: "x3", Team: "b"},
		{Name: "x4", Team: "a"},
	}
	cols := personColumns()

	asc := Filter(src, cols, GlobalText(), State{})
	Sort(asc, cols, &SortKey{Column: "team", Direction: Ascending})
	assert.Equal(t, []string{"x2", "x4", "x1", "x3"}, names(asc))

	desc := Filter(src, cols, GlobalText(), State{})
	Sort(desc, cols, &SortKey{Column: "team", Direction: Descending})
	assert.Equal(t, []string{"x1", "x3", "x2", "x4"}, names(desc))

	assert.Equal(t, []string{"x1", "x2", "x3", "x4"}, names(src), "source is untouched")
}

func TestCustomComparator(t *testing.T) {
	byLen := func(a, b person) int { return len(a.Name) - len(b.Name) }
	cols := MustColumns(NewTextColumn("name", "Name", func(p person) string { return p.Name }, WithCompare(byLen)))
	rows := []person{{Name: "ccc"}, {Name: "a"}, {Name: "bb"}}
	Sort(rows, cols, &SortKey{Column: "name", Direction: Ascending})
	assert.Equal(t, []string{"a", "bb", "ccc"}, names(rows))
}

func TestServerPaginationBounds(t *testing.T) {
	var (
		store     *Store[person]
		requested []int
	)
	const total = 3
	pager := NewServerPagination(10, func(p int) {
		requested = append(requested, p)
		store.Mutate(LoadPage(numbered(2), p, total))
	}, nil)
	store = NewStore(personColumns(), GlobalText(), pager)
	store.Mutate(LoadPage(numbered(2), 1, total))

	for i := 0; i < 5; i++ {
		store.Mutate(NextPage[person]())
	}
	for i := 0; i < 5; i++ {
		store.Mutate(PreviousPage[person]())
	}

	assert.Equal(t, []int{2, 3, 2, 1}, requested)
	for _, p := range requested {
		assert.GreaterOrEqual(t, p, 1)
		assert.LessOrEqual(t, p, total)
	}
	assert.Equal(t, 1, store.View().Page)
}

func TestServerSearchForwarding(t *testing.T) {
	var (
		store    *Store[person]
		searches []string
		pages    []int
	)
	pager := NewServerPagination(10,
		func(p int) { pages = append(pages, p) },
		func(q string) { searches = append(searches, q) },
	)
	store = NewStore(personColumns(), GlobalText(), pager)
	store.Mutate(LoadPage([]person{{Name: "Alice"}, {Name: "Bob"}}, 2, 4))

	snap := store.Mutate(SetFilterText[person]("ali"))
	assert.Equal(t, []string{"ali"}, searches)
	assert.Empty(t, pages)
	assert.Equal(t, 1, snap.Page)
	assert.Len(t, snap.Rows, 2, "forwarded search is not applied locally")
}

func TestServerPageLocalFilterAndSort(t *testing.T) {
	store := NewStore(personColumns(), GlobalText(), NewServerPagination(10, nil, nil))
	store.Mutate(LoadPage([]person{{Name: "Cara"}, {Name: "Al"}, {Name: "Bea"}}, 2, 5))

	snap := store.Mutate(ToggleSort[person]("name"))
	assert.Equal(t, []string{"Al", "Bea", "Cara"}, names(snap.Rows))
	assert.Equal(t, 2, snap.Page, "sorting does not move the server page")

	snap = store.Mutate(SetFilterText[person]("a"))
	assert.Equal(t, 2, snap.Page)
	assert.Equal(t, []string{"Al", "Bea", "Cara"}, names(snap.Rows))

	snap = store.Mutate(SetFilterText[person]("be"))
	assert.Equal(t, []string{"Bea"}, names(snap.Rows))
	assert.Equal(t, 5, snap.TotalPages)
}

func TestLoadingAndErrors(t *testing.T) {
	s := NewStore(personColumns(), GlobalText(), NewClientPagination(10))

	snap := s.Mutate(BeginLoading[person]())
	assert.True(t, snap.Loading)
	assert.False(t, snap.Empty())

	boom := errors.New("boom")
	snap = s.Mutate(FailLoading[person](boom))
	assert.False(t, snap.Loading)
	assert.ErrorIs(t, snap.Err, boom)

	snap = s.Mutate(Load([]person{}))
	assert.NoError(t, snap.Err)
	assert.True(t, snap.Empty())
}

func TestSubscribe(t *testing.T) {
	s := NewStore(personColumns(), GlobalText(), NewClientPagination(10))
	var got []int
	unsubscribe := s.Subscribe(func(snap Snapshot[person]) { got = append(got, len(snap.Rows)) })

	s.Mutate(Load(numbered(3)))
	s.Mutate(SetFilterText[person]("row01"))
	unsubscribe()
	s.Mutate(SetFilterText[person](""))

	assert.Equal(t, []int{3, 1}, got)
}

func TestNewColumnsRejectsBadIDs(t *testing.T) {
	_, err := NewColumns(
		NewTextColumn("a", "A", func(p person) string { return p.Name }),
		NewTextColumn("a", "A again", func(p person) string { return p.Team }),
	)
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = NewColumns(NewTextColumn(" ", "Blank", func(p person) string { return p.Name }))
	assert.ErrorIs(t, err, ErrEmptyColumnID)
}

func TestLookupFallback(t *testing.T) {
	type role struct{ id, name string }
	l := NewLookup([]role{{"r1", "Admin"}}, func(r role) string { return r.id }, func(r role) string { return r.name }, "Unknown Role")

	assert.Equal(t, "Admin", l.Resolve("r1"))
	assert.Equal(t, "Unknown Role", l.Resolve("r9"))
	assert.False(t, l.Has("r9"))
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"nil last", nil, "a", 1},
		{"both nil", nil, nil, 0},
		{"text", "apple", "Banana", -1},
		{"accents", "Émile", "Eve", -1},
		{"times", day(2), day(1), 1},
		{"ints", 2, 10, -1},
		{"bools", true, false, 1},
		{"mixed", 10, "9", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareValues(tt.a, tt.b))
		})
	}
}

func TestGridRendersSnapshot(t *testing.T) {
	s := NewStore(personColumns(), GlobalText(), NewClientPagination(10))
	s.Mutate(Load(numbered(12)))
	g := s.Mutate(ToggleSort[person]("name")).Grid()

	assert.Equal(t, []string{"name", "team", "joined", "actions"}, g.IDs)
	assert.Equal(t, []bool{true, true, true, false}, g.Sortable)
	assert.Equal(t, []string{"▲", "", "", ""}, g.Indicators)
	assert.Equal(t, []int{0, 1, 2}, g.DataColumns())
	require.Len(t, g.Cells, 10)
	assert.Equal(t, []string{"row01", "core", FormatDate(day(0)), "…"}, g.Cells[0])
	assert.Equal(t, StatusRows, g.Status())

	g.Err = errors.New("boom")
	g.Loading = true
	assert.Equal(t, StatusError, g.Status(), "an error wins over loading")
}
