package admin

import (
	"time"

	"github.com/imgajeed76/pgaccess/internal/view"
)

// UnknownRole labels accounts whose role id matches no known role.
const UnknownRole = "Unknown Role"

// AccountRow is an account joined with its role name.
type AccountRow struct {
	Account  Account
	RoleName string
	Joined   time.Time
}

// RoleRow wraps a role for display.
type RoleRow struct {
	Role Role
}

// RoleNames indexes role names by id for the account join.
func RoleNames(roles []Role) view.Lookup[string] {
	return view.NewLookup(roles,
		func(r Role) string { return r.ID },
		func(r Role) string { return r.Name },
		UnknownRole,
	)
}

// BuildAccountRows joins accounts with roles in account order.
func BuildAccountRows(accounts []Account, roles []Role) []AccountRow {
	names := RoleNames(roles)
	return view.Build(accounts, func(a Account) AccountRow {
		return AccountRow{
			Account:  a,
			RoleName: names.Resolve(a.RoleID),
			Joined:   a.CreatedAt.UTC(),
		}
	})
}

// BuildRoleRows projects roles in order.
func BuildRoleRows(roles []Role) []RoleRow {
	return view.Build(roles, func(r Role) RoleRow { return RoleRow{Role: r} })
}
