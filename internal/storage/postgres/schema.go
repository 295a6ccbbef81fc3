package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS profiles (
	user_id TEXT PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
	display_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT ''
)`,
	`CREATE TABLE IF NOT EXISTS permissions (
	user_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	sub_id UUID NOT NULL,
	permission TEXT NOT NULL,
	PRIMARY KEY (user_id, sub_id, permission)
)`,
}

// EnsureSchema creates the collaborator tables if they do not exist.
func (d *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		qctx, cancel := d.withTimeout(ctx)
		_, err := d.db.ExecContext(qctx, stmt)
		cancel()
		if err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
