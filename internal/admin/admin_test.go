package admin_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/memstore"
	"github.com/imgajeed76/pgaccess/internal/query"
	"github.com/imgajeed76/pgaccess/internal/view"
)

// counting wraps a backend, counts calls and can fail them.
type counting struct {
	admin.Backend

	mu          sync.Mutex
	accounts    int
	roles       []admin.RoleQuery
	accountsErr error
	rolesErr    error
	updateErr   error
}

func (c *counting) FetchAccounts(ctx context.Context) (admin.Paged[admin.Account], error) {
	c.mu.Lock()
	c.accounts++
	err := c.accountsErr
	c.mu.Unlock()
	if err != nil {
		return admin.Paged[admin.Account]{}, err
	}
	return c.Backend.FetchAccounts(ctx)
}

func (c *counting) FetchRoles(ctx context.Context, q admin.RoleQuery) (admin.Paged[admin.Role], error) {
	c.mu.Lock()
	c.roles = append(c.roles, q)
	err := c.rolesErr
	c.mu.Unlock()
	if err != nil {
		return admin.Paged[admin.Role]{}, err
	}
	return c.Backend.FetchRoles(ctx, q)
}

func (c *counting) UpdateRole(ctx context.Context, id string, p admin.RolePatch) (admin.Role, error) {
	if c.updateErr != nil {
		return admin.Role{}, c.updateErr
	}
	return c.Backend.UpdateRole(ctx, id, p)
}

func (c *counting) roleQueries() []admin.RoleQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]admin.RoleQuery(nil), c.roles...)
}

func newBackend() *counting {
	return &counting{Backend: memstore.NewSeeded()}
}

func TestAccountsScreenLoads(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	s := admin.NewAccountsScreen(b, nil, nil, 10)

	assert.True(t, s.Stale())
	require.NoError(t, s.Refresh(ctx))
	assert.False(t, s.Stale())

	g := s.Grid()
	assert.Equal(t, view.StatusRows, g.Status())
	assert.Equal(t, []string{"user", "role", "joined", "actions"}, g.IDs)
	assert.Len(t, g.Cells, 10)
	assert.Equal(t, 3, g.TotalPages)
	assert.Equal(t, "Alice Anderson", g.Cells[0][0])
	assert.Equal(t, "Jan 15, 2024", g.Cells[0][2])
	assert.Equal(t, "delete", g.Cells[0][3])
}

func TestAccountsUnknownRole(t *testing.T) {
	ctx := context.Background()
	s := admin.NewAccountsScreen(newBackend(), nil, nil, 10)
	require.NoError(t, s.Refresh(ctx))

	s.Search("Zimmermann")
	rows := s.Store().View().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, admin.UnknownRole, rows[0].RoleName)
}

func TestAccountsFilterIsUserColumnOnly(t *testing.T) {
	ctx := context.Background()
	s := admin.NewAccountsScreen(newBackend(), nil, nil, 10)
	require.NoError(t, s.Refresh(ctx))

	s.Search("Administrator")
	assert.Equal(t, view.StatusEmpty, s.Grid().Status(), "role names are not searched")

	s.Search("ali")
	assert.Equal(t, 1, s.Store().View().Matched)
}

func TestAccountsFetchErrorPrecedence(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	b.rolesErr = errors.New("connection reset")
	s := admin.NewAccountsScreen(b, nil, nil, 10)

	err := s.Refresh(ctx)
	require.Error(t, err)

	var fe *admin.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "roles", fe.Kind)
	assert.Equal(t, "Failed to fetch roles: connection reset", err.Error())

	g := s.Grid()
	assert.Equal(t, view.StatusError, g.Status())
	assert.False(t, g.Loading)
}

func TestAccountsFetchesShareRoleCache(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	q := query.New(nil)
	s := admin.NewAccountsScreen(b, q, nil, 10)

	require.NoError(t, s.Refresh(ctx))
	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, 1, b.accounts)
	assert.Len(t, b.roleQueries(), 1)

	q.Invalidate(admin.KindRoles)
	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, 1, b.accounts)
	assert.Len(t, b.roleQueries(), 2)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	s := admin.NewAccountsScreen(b, nil, nil, 10)
	require.NoError(t, s.Refresh(ctx))

	assert.ErrorIs(t, s.ConfirmDelete(ctx), admin.ErrNoDialog)
	assert.ErrorIs(t, s.Open(99), admin.ErrNoSelection)

	require.NoError(t, s.Open(1))
	d := s.Dialog()
	assert.Equal(t, admin.DialogDelete, d.Kind)
	assert.Equal(t, "Are you sure?", d.Title)
	assert.Equal(t, "The user Bob Baker will be permanently deleted.", d.Message)

	require.NoError(t, s.ConfirmDelete(ctx))
	assert.False(t, s.Dialog().Open())
	assert.Empty(t, s.Selected())
	assert.Equal(t, "User deleted successfully", s.TakeToast())
	assert.Empty(t, s.TakeToast(), "toast is taken once")
	assert.Equal(t, 2, b.accounts, "accounts refetched after delete")
	assert.Equal(t, 24, s.Store().View().Matched)
}

func TestDeleteCancel(t *testing.T) {
	ctx := context.Background()
	s := admin.NewAccountsScreen(newBackend(), nil, nil, 10)
	require.NoError(t, s.Refresh(ctx))

	require.NoError(t, s.Open(0))
	s.CancelDialog()
	assert.False(t, s.Dialog().Open())
	assert.Empty(t, s.Selected())
	assert.Equal(t, 25, s.Store().View().Matched)
}

func TestRolesScreenServerPaging(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	s := admin.NewRolesScreen(b, nil, nil)
	require.NoError(t, s.Refresh(ctx))

	g := s.Grid()
	assert.Len(t, g.Cells, 10)
	assert.Equal(t, 2, g.TotalPages)
	assert.True(t, g.CanNextPage)
	assert.Equal(t, "Member [Default] · Standard access", g.Cells[1][0])
	assert.Equal(t, "Developer", g.Cells[7][0])

	s.PreviousPage()
	assert.False(t, s.Stale(), "no request before page 1")

	s.NextPage()
	assert.True(t, s.Stale())
	require.NoError(t, s.Refresh(ctx))
	g = s.Grid()
	assert.Equal(t, 2, g.Page)
	assert.Len(t, g.Cells, 2)
	assert.False(t, g.CanNextPage)

	s.NextPage()
	assert.False(t, s.Stale(), "no request past the last page")

	assert.Equal(t, []admin.RoleQuery{{Page: 1}, {Page: 2}}, b.roleQueries())
}

func TestRolesSearchForwarded(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	s := admin.NewRolesScreen(b, nil, nil)
	require.NoError(t, s.Refresh(ctx))
	s.NextPage()
	require.NoError(t, s.Refresh(ctx))

	s.Search("access")
	assert.Equal(t, admin.RoleQuery{Page: 1, Search: "access"}, s.Query())
	require.NoError(t, s.Refresh(ctx))

	g := s.Grid()
	assert.Equal(t, 1, g.Page)
	assert.Len(t, g.Cells, 4)
	assert.Equal(t, admin.RoleQuery{Page: 1, Search: "access"}, b.roleQueries()[2])
}

func TestRolesStaleResultDropped(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	s := admin.NewRolesScreen(b, nil, nil)

	// Search moves on while the first fetch is in flight.
	b.Backend = &hook{Backend: b.Backend, before: func() { s.Search("edit") }}
	require.NoError(t, s.Refresh(ctx))
	assert.True(t, s.Stale())
	assert.True(t, s.Grid().Loading, "dropped result leaves the screen loading")

	b.Backend = b.Backend.(*hook).Backend
	require.NoError(t, s.Refresh(ctx))
	assert.Len(t, s.Grid().Cells, 1)
}

type hook struct {
	admin.Backend
	before func()
	once   sync.Once
}

func (h *hook) FetchRoles(ctx context.Context, q admin.RoleQuery) (admin.Paged[admin.Role], error) {
	h.once.Do(h.before)
	return h.Backend.FetchRoles(ctx, q)
}

func TestRenameSuccess(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	s := admin.NewRolesScreen(b, nil, nil)
	require.NoError(t, s.Refresh(ctx))

	require.NoError(t, s.Open(2))
	d := s.Dialog()
	assert.Equal(t, admin.DialogRename, d.Kind)
	assert.Equal(t, "Editor", d.Name)
	assert.Equal(t, "Can edit content", d.Description)

	require.NoError(t, s.SubmitRename(ctx, "  Senior Editor ", ""))
	assert.False(t, s.Dialog().Open())
	assert.Empty(t, s.Selected())
	assert.Empty(t, s.Alert())
	assert.Equal(t, "Role renamed successfully", s.TakeToast())
	assert.Equal(t, view.StatusRows, s.Grid().Status())

	assert.Len(t, b.roleQueries(), 2, "roles refetched after rename")
	assert.Equal(t, "Senior Editor · Can edit content", s.Grid().Cells[2][0])
}

// gate holds the first role fetch after reading from the backend, so the
// caller sees the data as it was before any later mutation.
type gate struct {
	admin.Backend
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gate) FetchRoles(ctx context.Context, q admin.RoleQuery) (admin.Paged[admin.Role], error) {
	res, err := g.Backend.FetchRoles(ctx, q)
	g.once.Do(func() {
		close(g.started)
		<-g.release
	})
	return res, err
}

func TestRenameDuringRefreshShowsNewName(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	q := query.New(nil)
	s := admin.NewRolesScreen(b, q, nil)
	require.NoError(t, s.Refresh(ctx))
	require.NoError(t, s.Open(2))

	g := &gate{Backend: b.Backend, started: make(chan struct{}), release: make(chan struct{})}
	b.Backend = g
	q.Invalidate(admin.KindRoles)

	done := make(chan error)
	go func() { done <- s.Refresh(ctx) }()
	<-g.started

	require.NoError(t, s.SubmitRename(ctx, "Senior Editor", ""))
	close(g.release)
	require.NoError(t, <-done)

	assert.False(t, s.Stale())
	assert.Equal(t, "Senior Editor · Can edit content", s.Grid().Cells[2][0])
}

func TestRefetchFailureAfterRenameIsLogged(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.DebugLevel)
	b := newBackend()
	s := admin.NewRolesScreen(b, nil, zap.New(core).Sugar())
	require.NoError(t, s.Refresh(ctx))
	require.NoError(t, s.Open(2))

	b.mu.Lock()
	b.rolesErr = errors.New("connection reset")
	b.mu.Unlock()

	require.NoError(t, s.SubmitRename(ctx, "Senior Editor", ""))
	assert.Equal(t, "Role renamed successfully", s.TakeToast())
	assert.Equal(t, view.StatusError, s.Grid().Status())
	assert.Equal(t, 1, logs.FilterMessage("refetch after rename failed").Len())
}

func TestRenameFailure(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	s := admin.NewRolesScreen(b, nil, nil)
	require.NoError(t, s.Refresh(ctx))

	require.NoError(t, s.Open(2))
	err := s.SubmitRename(ctx, "Viewer", "")
	require.ErrorIs(t, err, admin.ErrNameTaken)

	assert.False(t, s.Dialog().Open())
	assert.Empty(t, s.Selected())
	assert.Equal(t, "Name already exists", s.Alert())
	assert.Len(t, b.roleQueries(), 1, "no refetch on failure")
	assert.Equal(t, view.StatusRows, s.Grid().Status())

	s.DismissAlert()
	assert.Empty(t, s.Alert())
}

func TestRenameFailureFallbackMessage(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	b.updateErr = errors.New("")
	s := admin.NewRolesScreen(b, nil, nil)
	require.NoError(t, s.Refresh(ctx))

	require.NoError(t, s.Open(0))
	require.Error(t, s.SubmitRename(ctx, "Root", ""))
	assert.Equal(t, "Failed to rename role", s.Alert())
}

func TestRenameValidationBlocks(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	b.updateErr = errors.New("must not be called")
	s := admin.NewRolesScreen(b, nil, nil)
	require.NoError(t, s.Refresh(ctx))

	require.NoError(t, s.Open(0))
	err := s.SubmitRename(ctx, "   ", "whatever")
	require.ErrorIs(t, err, admin.ErrNameRequired)

	d := s.Dialog()
	assert.True(t, d.Open(), "dialog stays open")
	assert.Equal(t, "name is required", d.Err)
	assert.NotEmpty(t, s.Selected())
	assert.Empty(t, s.Alert())
}

func TestRenameInvalidatesAccountRoleNames(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	q := query.New(nil)
	accounts := admin.NewAccountsScreen(b, q, nil, 10)
	roles := admin.NewRolesScreen(b, q, nil)
	require.NoError(t, accounts.Refresh(ctx))
	require.NoError(t, roles.Refresh(ctx))

	require.NoError(t, roles.Open(0))
	require.NoError(t, roles.SubmitRename(ctx, "Root", ""))

	require.NoError(t, accounts.Refresh(ctx))
	assert.Equal(t, "Root", accounts.Store().View().Rows[0].RoleName)
}

func TestOpenIDOffPage(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	s := admin.NewRolesScreen(b, nil, nil)
	require.NoError(t, s.Refresh(ctx))

	all, err := b.Backend.FetchRoles(ctx, admin.RoleQuery{})
	require.NoError(t, err)
	owner := all.Data[11]

	require.NoError(t, s.RequestRename(ctx, owner.ID))
	assert.Equal(t, "Owner", s.Dialog().Name)

	assert.ErrorIs(t, s.RequestRename(ctx, "missing"), admin.ErrNotFound)
}

func TestNewRenamePatch(t *testing.T) {
	tests := []struct {
		name, desc string
		wantName   string
		wantDesc   *string
		wantErr    error
	}{
		{name: "Admin", wantName: "Admin"},
		{name: " Admin ", desc: "  ", wantName: "Admin"},
		{name: "Admin", desc: " all ", wantName: "Admin", wantDesc: ptr("all")},
		{name: "", wantErr: admin.ErrNameRequired},
		{name: "\t", wantErr: admin.ErrNameRequired},
	}
	for _, tt := range tests {
		p, err := admin.NewRenamePatch(tt.name, tt.desc)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.wantName, *p.Name)
		assert.Equal(t, tt.wantDesc, p.Description)
	}
}

func TestPageOf(t *testing.T) {
	items := make([]int, 25)
	assert.Equal(t, 3, admin.PageOf(items, 1, 10).Pages)
	assert.Len(t, admin.PageOf(items, 3, 10).Data, 5)
	assert.Len(t, admin.PageOf(items, 0, 10).Data, 25)
	assert.Equal(t, 1, admin.PageOf([]int{}, 1, 10).Pages)
}

func TestRoleColumnSortsByName(t *testing.T) {
	now := time.Now()
	rows := admin.BuildRoleRows([]admin.Role{
		{ID: "1", Name: "beta", Description: ptr("aaa"), CreatedAt: now},
		{ID: "2", Name: "Alpha", Description: ptr("zzz"), CreatedAt: now},
	})
	view.Sort(rows, admin.RoleColumns(), &view.SortKey{Column: admin.ColRole, Direction: view.Ascending})
	assert.Equal(t, "Alpha", rows[0].Role.Name)
}

func ptr(s string) *string { return &s }

func TestGridKeysFollowRows(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	q := query.New(nil)
	accounts := admin.NewAccountsScreen(b, q, nil, 10)
	roles := admin.NewRolesScreen(b, q, nil)
	require.NoError(t, accounts.Refresh(ctx))
	require.NoError(t, roles.Refresh(ctx))

	ag := accounts.Grid()
	require.Len(t, ag.Keys, len(ag.Cells))
	require.NoError(t, accounts.OpenID(ctx, ag.Keys[0]))
	assert.Contains(t, accounts.Dialog().Message, ag.Cells[0][0])
	accounts.Cancel()

	rg := roles.Grid()
	require.Len(t, rg.Keys, len(rg.Cells))
	require.NoError(t, roles.OpenID(ctx, rg.Keys[1]))
	assert.Equal(t, "Member", roles.Dialog().Name)
}
