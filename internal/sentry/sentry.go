// Package sentry wraps Sentry SDK initialization for Better Stack
// error tracking. Collaborator failures (user store, LINE reply API)
// are reported here; user-facing menu outcomes are not.
package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds Sentry configuration for Better Stack integration
type Config struct {
	// Token is the Better Stack Errors application token. Empty token
	// disables error reporting entirely.
	Token string

	// Host is the Better Stack Errors ingesting host
	Host string

	// Environment identifies the deployment environment
	Environment string

	// Release identifies the application release version
	Release string

	// SampleRate controls error sampling (0.0-1.0, default 1.0)
	SampleRate float64

	// Debug enables Sentry SDK debug logging
	Debug bool
}

// Initialize sets up the Sentry SDK. The DSN is constructed as
// https://$TOKEN@$HOST/1; the project ID segment is required by the
// SDK but ignored by Better Stack.
func Initialize(cfg Config) error {
	if cfg.Token == "" {
		return nil // error reporting disabled
	}

	if cfg.Host == "" {
		return fmt.Errorf("sentry host is required when token is provided")
	}

	dsn := fmt.Sprintf("https://%s@%s/1", cfg.Token, cfg.Host)

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

// Flush waits for buffered events to be sent.
// Returns true if all events were sent within the timeout.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled reports whether Sentry is initialized and active
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// CaptureException reports an error
func CaptureException(err error) {
	sentry.CaptureException(err)
}

// CaptureExceptionWithContext reports an error using the hub bound to
// the request context when one exists
func CaptureExceptionWithContext(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
