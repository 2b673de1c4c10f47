package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/imgajeed76/pgaccess/internal/memstore"
)

// Seed replaces every role and account with f using pgx.CopyFrom.
func (db *DB) Seed(ctx context.Context, f memstore.Fixture) error {
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM pgaccess_accounts"); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, "DELETE FROM pgaccess_roles"); err != nil {
			return err
		}

		roles := make([][]any, len(f.Roles))
		for i, r := range f.Roles {
			roles[i] = []any{r.ID, r.Name, r.Description, r.IsDefault, r.CreatedAt, r.UpdatedAt}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"pgaccess_roles"},
			[]string{"id", "name", "description", "is_default", "created_at", "updated_at"},
			pgx.CopyFromRows(roles),
		); err != nil {
			return fmt.Errorf("failed to copy roles: %w", err)
		}

		accounts := make([][]any, len(f.Accounts))
		for i, a := range f.Accounts {
			accounts[i] = []any{a.ID, a.First, a.Last, a.Photo, a.RoleID, a.CreatedAt, a.UpdatedAt}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"pgaccess_accounts"},
			[]string{"id", "first_name", "last_name", "photo", "role_id", "created_at", "updated_at"},
			pgx.CopyFromRows(accounts),
		); err != nil {
			return fmt.Errorf("failed to copy accounts: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	db.log.Infow("seeded", "roles", len(f.Roles), "accounts", len(f.Accounts))
	return db.SetMetadata(ctx, MetaKeySeededAt, db.now().UTC().Format(time.RFC3339))
}
