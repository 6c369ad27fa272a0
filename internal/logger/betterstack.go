package logger

import (
	slogbetterstack "github.com/samber/slog-betterstack"
)

// BetterStackConfig holds the Better Stack log shipping settings.
// An empty Token disables shipping.
type BetterStackConfig struct {
	Token    string
	Endpoint string
	Level    string
}

// NewWithBetterStack creates a logger that writes JSON to stdout and,
// when a token is configured, ships the same records to Better Stack.
func NewWithBetterStack(level string, cfg BetterStackConfig) *Logger {
	stdout := StdoutHandler(level)
	if cfg.Token == "" {
		return NewWithHandler(stdout)
	}

	opt := slogbetterstack.Option{
		Token: cfg.Token,
		Level: ParseLevel(cfg.Level),
	}
	if cfg.Endpoint != "" {
		opt.Endpoint = cfg.Endpoint
	}

	return NewWithHandler(NewMultiHandler(stdout, opt.NewBetterstackHandler()))
}
