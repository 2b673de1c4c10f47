package view

import (
	"slices"
	"sync"
)

// Store owns the view state of one table and the rows it derives from.
// Every Mutate reruns Filter, Sort and Paginate over the whole source and
// publishes the result before returning.
type Store[R any] struct {
	mu      sync.Mutex
	columns Columns[R]
	policy  FilterPolicy
	pager   PaginationController

	source  []R
	state   State
	loading bool
	err     error
	current Snapshot[R]

	listeners []listener[R]
	nextID    int
}

type listener[R any] struct {
	id int
	fn func(Snapshot[R])
}

// NewStore builds a store with no rows. The pagination mode is fixed by
// pager for the life of the store.
func NewStore[R any](columns Columns[R], policy FilterPolicy, pager PaginationController) *Store[R] {
	if policy == nil {
		policy = GlobalText()
	}
	if pager == nil {
		pager = NewClientPagination(DefaultPageSize)
	}
	s := &Store[R]{
		columns: columns,
		policy:  policy,
		pager:   pager,
		state:   State{Page: pager.Initial()},
	}
	s.current = s.derive()
	return s
}

// State returns a copy of the current view state.
func (s *Store[R]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// View returns the most recently derived snapshot.
func (s *Store[R]) View() Snapshot[R] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Store[R]) Columns() Columns[R]         { return s.columns }
func (s *Store[R]) Policy() FilterPolicy        { return s.policy }
func (s *Store[R]) Pager() PaginationController { return s.pager }

// Mutate applies t, recomputes the snapshot and notifies subscribers.
// Effects requested by the pagination controller run last, after the lock
// is released, so they may call Mutate again.
func (s *Store[R]) Mutate(t Transition[R]) Snapshot[R] {
	s.mu.Lock()
	eff := t.apply(s)
	s.current = s.derive()
	snap := s.current
	ls := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range ls {
		l.fn(snap)
	}
	if eff != nil {
		eff()
	}
	return snap
}

// Subscribe registers fn for every published snapshot. The returned func
// removes the subscription.
func (s *Store[R]) Subscribe(fn func(Snapshot[R])) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener[R]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(l listener[R]) bool { return l.id == id })
	}
}

// derive runs the pipeline. Caller holds mu.
func (s *Store[R]) derive() Snapshot[R] {
	var rows []R
	if s.pager.Mode() == ModeServer && s.pager.ForwardsSearch() {
		rows = slices.Clone(s.source)
	} else {
		rows = Filter(s.source, s.columns, s.policy, s.state)
	}
	Sort(rows, s.columns, s.state.Sort)

	layout := s.pager.Layout(s.state.Page, len(rows))
	s.state.Page.Index = layout.Index
	s.state.Page.Total = layout.Total
	s.state.Page.Size = s.pager.PageSize()

	var sortKey *SortKey
	if s.state.Sort != nil {
		k := *s.state.Sort
		sortKey = &k
	}

	return Snapshot[R]{
		Columns:         s.columns,
		Mode:            s.pager.Mode(),
		Rows:            slices.Clone(rows[layout.Start:layout.End]),
		Matched:         len(rows),
		Page:            layout.Index,
		PageSize:        s.pager.PageSize(),
		TotalPages:      layout.Total,
		CanPreviousPage: layout.CanPrevious,
		CanNextPage:     layout.CanNext,
		Loading:         s.loading,
		Err:             s.err,
		Sort:            sortKey,
		Query:           s.state.Query,
	}
}
