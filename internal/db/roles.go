package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/util"
)

const roleColumns = `id, name, description, is_default, created_at, updated_at`

// roleFilter is the search predicate for $1, a LikePattern.
const roleFilter = `lower(name) LIKE $1 ESCAPE '\' OR lower(COALESCE(description, '')) LIKE $1 ESCAPE '\'`

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

func scanRole(row pgx.Row) (admin.Role, error) {
	var r admin.Role
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.IsDefault, &r.CreatedAt, &r.UpdatedAt)
	r.Name = util.CleanText(r.Name)
	if r.Description != nil {
		d := util.CleanText(*r.Description)
		r.Description = &d
	}
	return r, err
}

// FetchRoles returns one page of roles matching q.Search, oldest first.
// Page 0 returns every match.
func (db *DB) FetchRoles(ctx context.Context, q admin.RoleQuery) (admin.Paged[admin.Role], error) {
	pattern := LikePattern(q.Search)

	var total int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM pgaccess_roles WHERE `+roleFilter, pattern).Scan(&total); err != nil {
		return admin.Paged[admin.Role]{}, err
	}

	sql := `SELECT ` + roleColumns + ` FROM pgaccess_roles WHERE ` + roleFilter + ` ORDER BY created_at, id`
	args := []any{pattern}
	pages := 1
	if q.Page > 0 {
		sql += ` LIMIT $2 OFFSET $3`
		args = append(args, admin.RolePageSize, (q.Page-1)*admin.RolePageSize)
		pages = admin.PageCount(total, admin.RolePageSize)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return admin.Paged[admin.Role]{}, err
	}
	defer rows.Close()

	roles := make([]admin.Role, 0, admin.RolePageSize)
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return admin.Paged[admin.Role]{}, err
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return admin.Paged[admin.Role]{}, err
	}
	return admin.Paged[admin.Role]{Data: roles, Pages: pages}, nil
}

// UpdateRole applies patch. A name already used by another role fails
// with admin.ErrNameTaken.
func (db *DB) UpdateRole(ctx context.Context, id string, patch admin.RolePatch) (admin.Role, error) {
	r, err := scanRole(db.QueryRow(ctx, `
		UPDATE pgaccess_roles
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = $4
		WHERE id = $1
		RETURNING `+roleColumns,
		id, patch.Name, patch.Description, db.now().UTC()))

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return admin.Role{}, fmt.Errorf("role %s: %w", id, admin.ErrNotFound)
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		return admin.Role{}, admin.ErrNameTaken
	case err != nil:
		return admin.Role{}, err
	}
	db.log.Debugw("role updated", "id", id)
	return r, nil
}
