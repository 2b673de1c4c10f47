package db

import (
	"context"
	"fmt"
	"strings"
)

// Schema version for migrations
const SchemaVersion = 1

// Table DDL. The statements are portable between PostgreSQL and SQLite
// apart from the timestamp type, which callers substitute.
const (
	RolesTableDDL = `
	CREATE TABLE IF NOT EXISTS pgaccess_roles (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT,
		is_default  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  %[1]s NOT NULL,
		updated_at  %[1]s NOT NULL
	)`

	// No FK to pgaccess_roles: accounts may point at a role that was
	// removed, and show as "Unknown Role".
	AccountsTableDDL = `
	CREATE TABLE IF NOT EXISTS pgaccess_accounts (
		id          TEXT PRIMARY KEY,
		first_name  TEXT NOT NULL,
		last_name   TEXT NOT NULL,
		photo       TEXT NOT NULL DEFAULT '',
		role_id     TEXT NOT NULL,
		created_at  %[1]s NOT NULL,
		updated_at  %[1]s NOT NULL
	)`

	MetadataTableDDL = `
	CREATE TABLE IF NOT EXISTS pgaccess_metadata (
		key     TEXT PRIMARY KEY,
		value   TEXT NOT NULL
	)`
)

// Indexes shared by both dialects.
var Indexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_roles_name ON pgaccess_roles (lower(name))",
	"CREATE INDEX IF NOT EXISTS idx_roles_created ON pgaccess_roles (created_at)",
	"CREATE INDEX IF NOT EXISTS idx_accounts_created ON pgaccess_accounts (created_at)",
}

// Tables lists the tables in drop order.
var Tables = []string{"pgaccess_metadata", "pgaccess_accounts", "pgaccess_roles"}

// InitSchema creates the pgaccess schema in the database
func (db *DB) InitSchema(ctx context.Context) error {
	if err := db.Exec(ctx, fmt.Sprintf(RolesTableDDL, "TIMESTAMPTZ")); err != nil {
		return fmt.Errorf("failed to create pgaccess_roles: %w", err)
	}
	if err := db.Exec(ctx, fmt.Sprintf(AccountsTableDDL, "TIMESTAMPTZ")); err != nil {
		return fmt.Errorf("failed to create pgaccess_accounts: %w", err)
	}
	if err := db.Exec(ctx, MetadataTableDDL); err != nil {
		return fmt.Errorf("failed to create pgaccess_metadata: %w", err)
	}
	for _, idx := range Indexes {
		if err := db.Exec(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	if err := db.SetMetadata(ctx, MetaKeySchemaVersion, fmt.Sprint(SchemaVersion)); err != nil {
		return err
	}
	db.log.Infow("schema ready", "version", SchemaVersion)
	return nil
}

// MissingTables lists the pgaccess tables not present in the database.
func (db *DB) MissingTables(ctx context.Context) ([]string, error) {
	var missing []string
	for _, table := range Tables {
		var found bool
		if err := db.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", table).Scan(&found); err != nil {
			return nil, fmt.Errorf("failed to look up %s: %w", table, err)
		}
		if !found {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

// DropStatement drops every pgaccess table in one statement.
func DropStatement() string {
	return "DROP TABLE IF EXISTS " + strings.Join(Tables, ", ") + " CASCADE"
}

// DropSchema removes the pgaccess tables and their rows.
func (db *DB) DropSchema(ctx context.Context) error {
	if err := db.Exec(ctx, DropStatement()); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	db.log.Infow("schema dropped")
	return nil
}

// LikePattern turns a search string into a LIKE pattern matching it as a
// plain substring. Use with ESCAPE '\'.
func LikePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(search)) + "%"
}
