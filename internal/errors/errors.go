// Package errors provides domain-specific sentinel errors shared across
// the application. Use errors.Is() to check these errors in your code.
package errors

import "errors"

var (
	// ErrNotFound indicates a requested record was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyRegistered indicates a duplicate survey registration attempt.
	// Registration is at-most-once per user; callers surface this to the
	// user as an informational reply, not as an operational failure.
	ErrAlreadyRegistered = errors.New("user already registered")

	// ErrInvalidInput indicates user or caller provided invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
