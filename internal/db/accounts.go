package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/util"
)

var _ admin.Backend = (*DB)(nil)

const accountColumns = `id, first_name, last_name, photo, role_id, created_at, updated_at`

func scanAccount(row pgx.Row) (admin.Account, error) {
	var a admin.Account
	err := row.Scan(&a.ID, &a.First, &a.Last, &a.Photo, &a.RoleID, &a.CreatedAt, &a.UpdatedAt)
	a.First = util.CleanText(a.First)
	a.Last = util.CleanText(a.Last)
	return a, err
}

// FetchAccounts returns every account, oldest first.
func (db *DB) FetchAccounts(ctx context.Context) (admin.Paged[admin.Account], error) {
	rows, err := db.Query(ctx, `SELECT `+accountColumns+` FROM pgaccess_accounts ORDER BY created_at, id`)
	if err != nil {
		return admin.Paged[admin.Account]{}, err
	}
	defer rows.Close()

	var accounts []admin.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return admin.Paged[admin.Account]{}, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return admin.Paged[admin.Account]{}, err
	}
	return admin.Paged[admin.Account]{Data: accounts, Pages: 1}, nil
}

// DeleteAccount removes an account and returns it.
func (db *DB) DeleteAccount(ctx context.Context, id string) (admin.Account, error) {
	a, err := scanAccount(db.QueryRow(ctx,
		`DELETE FROM pgaccess_accounts WHERE id = $1 RETURNING `+accountColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return admin.Account{}, fmt.Errorf("user %s: %w", id, admin.ErrNotFound)
	}
	if err != nil {
		return admin.Account{}, err
	}
	db.log.Debugw("account deleted", "id", id)
	return a, nil
}
