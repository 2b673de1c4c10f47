package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imgajeed76/pgaccess/internal/admin"
)

func TestFixtures(t *testing.T) {
	f := Fixtures()
	require.Len(t, f.Roles, 12)
	require.Len(t, f.Accounts, 25)

	defaults := 0
	for _, r := range f.Roles {
		if r.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	rows := admin.BuildAccountRows(f.Accounts, f.Roles)
	assert.Equal(t, admin.UnknownRole, rows[len(rows)-1].RoleName)
	assert.Equal(t, "Administrator", rows[0].RoleName)
}

func TestFetchRolesPaging(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	tests := []struct {
		name      string
		q         admin.RoleQuery
		wantLen   int
		wantPages int
	}{
		{"all", admin.RoleQuery{}, 12, 1},
		{"page 1", admin.RoleQuery{Page: 1}, 10, 2},
		{"page 2", admin.RoleQuery{Page: 2}, 2, 2},
		{"past end", admin.RoleQuery{Page: 9}, 0, 2},
		{"search name", admin.RoleQuery{Page: 1, Search: "EDIT"}, 1, 1},
		{"search description", admin.RoleQuery{Page: 1, Search: "access"}, 4, 1},
		{"no match", admin.RoleQuery{Page: 1, Search: "zzz"}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.FetchRoles(ctx, tt.q)
			require.NoError(t, err)
			assert.Len(t, res.Data, tt.wantLen)
			assert.Equal(t, tt.wantPages, res.Pages)
		})
	}
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s := NewSeeded(WithClock(func() time.Time { return now }))

	roles, err := s.FetchRoles(ctx, admin.RoleQuery{})
	require.NoError(t, err)
	editor := roles.Data[2]
	require.Equal(t, "Editor", editor.Name)

	patch, err := admin.NewRenamePatch("Senior Editor", "")
	require.NoError(t, err)
	got, err := s.UpdateRole(ctx, editor.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Senior Editor", got.Name)
	assert.Equal(t, "Can edit content", got.DescriptionText(), "blank description leaves it unchanged")
	assert.Equal(t, now, got.UpdatedAt)

	taken, _ := admin.NewRenamePatch("viewer", "")
	_, err = s.UpdateRole(ctx, editor.ID, taken)
	assert.ErrorIs(t, err, admin.ErrNameTaken)
	assert.Equal(t, "Name already exists", err.Error())

	_, err = s.UpdateRole(ctx, "missing", patch)
	assert.ErrorIs(t, err, admin.ErrNotFound)
}

func TestReturnedRolesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	res, err := s.FetchRoles(ctx, admin.RoleQuery{})
	require.NoError(t, err)
	*res.Data[0].Description = "mutated"

	again, err := s.FetchRoles(ctx, admin.RoleQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Full access to every screen", again.Data[0].DescriptionText())
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	all, err := s.FetchAccounts(ctx)
	require.NoError(t, err)
	target := all.Data[1]

	deleted, err := s.DeleteAccount(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, deleted.ID)

	after, err := s.FetchAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, after.Data, 24)

	_, err = s.DeleteAccount(ctx, target.ID)
	assert.True(t, errors.Is(err, admin.ErrNotFound))
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSeeded()

	_, err := s.FetchAccounts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.FetchRoles(ctx, admin.RoleQuery{})
	assert.ErrorIs(t, err, context.Canceled)
}
