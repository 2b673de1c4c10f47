// Package sqlitedb is the embedded admin backend, a single SQLite file
// opened through database/sql with the pure Go modernc driver.
package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/db"
	"github.com/imgajeed76/pgaccess/internal/memstore"
	"github.com/imgajeed76/pgaccess/internal/util"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

// Store is a SQLite backed admin.Backend.
type Store struct {
	db   *sql.DB
	path string
	log  *zap.SugaredLogger
	now  func() time.Time
}

var _ admin.Backend = (*Store)(nil)

// DefaultPath is the database file under the XDG data directory.
func DefaultPath() string {
	xdg.Reload()
	return filepath.Join(xdg.DataHome, "pgaccess", "pgaccess.db")
}

// Open opens or creates the database at path and ensures the schema.
// An empty path means DefaultPath.
func Open(ctx context.Context, path string, log *zap.SugaredLogger) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	var dsn string
	if path == Memory {
		dsn = "file::memory:"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(absPath))
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; also keeps an in-memory database on a single connection.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: conn, path: path, log: log, now: time.Now}
	if err := s.InitSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Debugw("sqlite opened", "path", path)
	return s, nil
}

// Path is the database file, or Memory.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// InitSchema creates the tables and indexes if missing.
func (s *Store) InitSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(db.RolesTableDDL, "DATETIME"),
		fmt.Sprintf(db.AccountsTableDDL, "DATETIME"),
		db.MetadataTableDDL,
	}
	stmts = append(stmts, db.Indexes...)
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pgaccess_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		db.MetaKeySchemaVersion, fmt.Sprint(db.SchemaVersion))
	return err
}

// MissingTables lists the pgaccess tables not present in the file.
func (s *Store) MissingTables(ctx context.Context) ([]string, error) {
	var missing []string
	for _, table := range db.Tables {
		var n int
		err := s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("failed to look up %s: %w", table, err)
		}
		if n == 0 {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

// DropSchema removes the pgaccess tables. SQLite drops one table per
// statement, so the tables go in drop order.
func (s *Store) DropSchema(ctx context.Context) error {
	for _, table := range db.Tables {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	s.log.Infow("schema dropped", "path", s.path)
	return nil
}

// Empty reports whether no roles and no accounts exist.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM pgaccess_roles) + (SELECT count(*) FROM pgaccess_accounts)`).Scan(&n)
	return n == 0, err
}

// Seed replaces every role and account with f.
func (s *Store) Seed(ctx context.Context, f memstore.Fixture) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM pgaccess_accounts", "DELETE FROM pgaccess_roles"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, r := range f.Roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pgaccess_roles (`+roleColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Description, r.IsDefault, r.CreatedAt.UTC(), r.UpdatedAt.UTC()); err != nil {
			return fmt.Errorf("failed to insert role %s: %w", r.Name, err)
		}
	}
	for _, a := range f.Accounts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pgaccess_accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.First, a.Last, a.Photo, a.RoleID, a.CreatedAt.UTC(), a.UpdatedAt.UTC()); err != nil {
			return fmt.Errorf("failed to insert account %s: %w", a.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	s.log.Infow("seeded", "roles", len(f.Roles), "accounts", len(f.Accounts))
	return nil
}

const (
	accountColumns = `id, first_name, last_name, photo, role_id, created_at, updated_at`
	roleColumns    = `id, name, description, is_default, created_at, updated_at`
	roleFilter     = `(lower(name) LIKE ?1 ESCAPE '\' OR lower(COALESCE(description, '')) LIKE ?1 ESCAPE '\')`
)

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (admin.Account, error) {
	var a admin.Account
	err := row.Scan(&a.ID, &a.First, &a.Last, &a.Photo, &a.RoleID, &a.CreatedAt, &a.UpdatedAt)
	a.First = util.CleanText(a.First)
	a.Last = util.CleanText(a.Last)
	return a, err
}

func scanRole(row scanner) (admin.Role, error) {
	var r admin.Role
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.IsDefault, &r.CreatedAt, &r.UpdatedAt)
	r.Name = util.CleanText(r.Name)
	return r, err
}

func (s *Store) FetchAccounts(ctx context.Context) (admin.Paged[admin.Account], error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM pgaccess_accounts ORDER BY created_at, id`)
	if err != nil {
		return admin.Paged[admin.Account]{}, err
	}
	defer func() { _ = rows.Close() }()

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

func (s *Store) FetchRoles(ctx context.Context, q admin.RoleQuery) (admin.Paged[admin.Role], error) {
	pattern := db.LikePattern(q.Search)

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM pgaccess_roles WHERE `+roleFilter, pattern).Scan(&total); err != nil {
		return admin.Paged[admin.Role]{}, err
	}

	query := `SELECT ` + roleColumns + ` FROM pgaccess_roles WHERE ` + roleFilter + ` ORDER BY created_at, id`
	args := []any{pattern}
	pages := 1
	if q.Page > 0 {
		query += ` LIMIT ?2 OFFSET ?3`
		args = append(args, admin.RolePageSize, (q.Page-1)*admin.RolePageSize)
		pages = admin.PageCount(total, admin.RolePageSize)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return admin.Paged[admin.Role]{}, err
	}
	defer func() { _ = rows.Close() }()

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

func (s *Store) UpdateRole(ctx context.Context, id string, patch admin.RolePatch) (admin.Role, error) {
	r, err := scanRole(s.db.QueryRowContext(ctx, `
		UPDATE pgaccess_roles
		SET name = COALESCE(?2, name),
		    description = COALESCE(?3, description),
		    updated_at = ?4
		WHERE id = ?1
		RETURNING `+roleColumns,
		id, patch.Name, patch.Description, s.now().UTC()))

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return admin.Role{}, fmt.Errorf("role %s: %w", id, admin.ErrNotFound)
	case isUniqueViolation(err):
		return admin.Role{}, admin.ErrNameTaken
	case err != nil:
		return admin.Role{}, err
	}
	s.log.Debugw("role updated", "id", id)
	return r, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) (admin.Account, error) {
	a, err := scanAccount(s.db.QueryRowContext(ctx,
		`DELETE FROM pgaccess_accounts WHERE id = ? RETURNING `+accountColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return admin.Account{}, fmt.Errorf("user %s: %w", id, admin.ErrNotFound)
	}
	if err != nil {
		return admin.Account{}, err
	}
	s.log.Debugw("account deleted", "id", id)
	return a, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT
}
