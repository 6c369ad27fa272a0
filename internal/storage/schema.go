package storage

import (
	"database/sql"
	"fmt"
)

// InitSchema creates all required tables and indexes if they don't exist
func InitSchema(conn *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		line_user_id TEXT PRIMARY KEY,
		registered_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_users_registered_at ON users(registered_at);
	`

	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
