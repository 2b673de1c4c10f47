package admin

import (
	"context"
	"io"
)

// Backend is the data access collaborator behind both screens. Failures
// carry a message that is shown to the user as is.
type Backend interface {
	FetchAccounts(ctx context.Context) (Paged[Account], error)
	FetchRoles(ctx context.Context, q RoleQuery) (Paged[Role], error)
	UpdateRole(ctx context.Context, id string, patch RolePatch) (Role, error)
	DeleteAccount(ctx context.Context, id string) (Account, error)
	io.Closer
}
