package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Metadata keys
const (
	MetaKeySchemaVersion = "schema_version"
	MetaKeySeededAt      = "seeded_at"
)

// GetMetadata retrieves a metadata value by key. A missing key is "".
func (db *DB) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRow(ctx, "SELECT value FROM pgaccess_metadata WHERE key = $1", key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetMetadata sets a metadata key-value pair (upsert)
func (db *DB) SetMetadata(ctx context.Context, key, value string) error {
	return db.Exec(ctx, `
		INSERT INTO pgaccess_metadata (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
}
