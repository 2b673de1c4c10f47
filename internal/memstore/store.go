// Package memstore is an in-memory admin backend. It serves tests and the
// memory backend kind, and provides the seed fixtures the other backends
// load.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/util"
)

// Store holds accounts and roles in insertion order.
type Store struct {
	mu       sync.RWMutex
	accounts []admin.Account
	roles    []admin.Role
	now      func() time.Time
	log      *zap.SugaredLogger
}

var _ admin.Backend = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) { s.log = log }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now, log: zap.NewNop().Sugar()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewSeeded returns a store loaded with Fixtures.
func NewSeeded(opts ...Option) *Store {
	s := New(opts...)
	s.Load(Fixtures())
	return s
}

// Load replaces the contents with f.
func (s *Store) Load(f Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = slices.Clone(f.Accounts)
	s.roles = make([]admin.Role, len(f.Roles))
	for i, r := range f.Roles {
		s.roles[i] = cloneRole(r)
	}
}

// AddRole appends a role, assigning an id when empty.
func (s *Store) AddRole(r admin.Role) admin.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = newID(r.CreatedAt)
	}
	s.roles = append(s.roles, cloneRole(r))
	return cloneRole(r)
}

// AddAccount appends an account, assigning an id when empty.
func (s *Store) AddAccount(a admin.Account) admin.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = newID(a.CreatedAt)
	}
	s.accounts = append(s.accounts, a)
	return a
}

func (s *Store) FetchAccounts(ctx context.Context) (admin.Paged[admin.Account], error) {
	if err := ctx.Err(); err != nil {
		return admin.Paged[admin.Account]{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return admin.Paged[admin.Account]{Data: slices.Clone(s.accounts), Pages: 1}, nil
}

func (s *Store) FetchRoles(ctx context.Context, q admin.RoleQuery) (admin.Paged[admin.Role], error) {
	if err := ctx.Err(); err != nil {
		return admin.Paged[admin.Role]{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]admin.Role, 0, len(s.roles))
	for _, r := range s.roles {
		if admin.MatchesRoleSearch(r, q.Search) {
			matched = append(matched, cloneRole(r))
		}
	}
	return admin.PageOf(matched, q.Page, admin.RolePageSize), nil
}

// UpdateRole applies patch. Names are unique, compared case-insensitively.
func (s *Store) UpdateRole(ctx context.Context, id string, patch admin.RolePatch) (admin.Role, error) {
	if err := ctx.Err(); err != nil {
		return admin.Role{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.roles, func(r admin.Role) bool { return r.ID == id })
	if idx < 0 {
		return admin.Role{}, fmt.Errorf("role %s: %w", id, admin.ErrNotFound)
	}
	if patch.Name != nil {
		for _, r := range s.roles {
			if r.ID != id && strings.EqualFold(r.Name, *patch.Name) {
				return admin.Role{}, admin.ErrNameTaken
			}
		}
	}
	s.roles[idx] = patch.Apply(s.roles[idx], s.now().UTC())
	s.log.Debugw("role updated", "id", id)
	return cloneRole(s.roles[idx]), nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) (admin.Account, error) {
	if err := ctx.Err(); err != nil {
		return admin.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.accounts, func(a admin.Account) bool { return a.ID == id })
	if idx < 0 {
		return admin.Account{}, fmt.Errorf("user %s: %w", id, admin.ErrNotFound)
	}
	a := s.accounts[idx]
	s.accounts = slices.Delete(s.accounts, idx, idx+1)
	s.log.Debugw("account deleted", "id", id)
	return a, nil
}

func (s *Store) Close() error { return nil }

func cloneRole(r admin.Role) admin.Role {
	if r.Description != nil {
		d := *r.Description
		r.Description = &d
	}
	return r
}

func newID(at time.Time) string {
	if at.IsZero() {
		return util.NewULID()
	}
	return util.NewULIDWithTime(at)
}
