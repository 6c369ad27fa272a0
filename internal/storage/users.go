package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/ritsnavi/rits-linebot-go/internal/errors"
)

// FindUser returns the user with the given LINE user ID, or
// apperrors.ErrNotFound if no such user is registered.
func (db *DB) FindUser(ctx context.Context, lineUserID string) (*User, error) {
	if lineUserID == "" {
		return nil, fmt.Errorf("line user id is empty: %w", apperrors.ErrInvalidInput)
	}

	var registeredAt int64
	err := db.conn.QueryRowContext(ctx,
		"SELECT registered_at FROM users WHERE line_user_id = ?",
		lineUserID,
	).Scan(&registeredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &User{
		LineUserID:   lineUserID,
		RegisteredAt: time.Unix(registeredAt, 0).UTC(),
	}, nil
}

// RegisterUser records the user as having completed the survey
// registration. Returns apperrors.ErrAlreadyRegistered when a record
// already exists; the primary key makes concurrent registration of the
// same user resolve to exactly one winner.
func (db *DB) RegisterUser(ctx context.Context, lineUserID string) error {
	if lineUserID == "" {
		return fmt.Errorf("line user id is empty: %w", apperrors.ErrInvalidInput)
	}

	res, err := db.conn.ExecContext(ctx,
		"INSERT OR IGNORE INTO users (line_user_id, registered_at) VALUES (?, ?)",
		lineUserID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check registration result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrAlreadyRegistered
	}

	return nil
}

// CountUsers returns the total number of registered users
func (db *DB) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
