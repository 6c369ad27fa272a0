package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "test_token")
	t.Setenv("LINE_CHANNEL_SECRET", "test_secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Bot.WebhookTimeout != 25*time.Second {
		t.Errorf("expected default webhook timeout 25s, got %v", cfg.Bot.WebhookTimeout)
	}
	if cfg.Bot.MaxEventsPerWebhook != 100 {
		t.Errorf("expected default max events 100, got %d", cfg.Bot.MaxEventsPerWebhook)
	}
	if cfg.Bot.MaxQuickReplyOptions != 13 {
		t.Errorf("expected max quick reply options 13, got %d", cfg.Bot.MaxQuickReplyOptions)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "")
	t.Setenv("LINE_CHANNEL_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error without LINE credentials")
	}
	if !strings.Contains(err.Error(), "LINE_CHANNEL_ACCESS_TOKEN") {
		t.Errorf("expected token error, got %v", err)
	}
	if !strings.Contains(err.Error(), "LINE_CHANNEL_SECRET") {
		t.Errorf("expected secret error, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("WEBHOOK_TIMEOUT", "10s")
	t.Setenv("GLOBAL_RATE_RPS", "50")
	t.Setenv("DATA_DIR", "/tmp/ritsbot")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.Bot.WebhookTimeout != 10*time.Second {
		t.Errorf("expected webhook timeout 10s, got %v", cfg.Bot.WebhookTimeout)
	}
	if cfg.Bot.GlobalRateRPS != 50 {
		t.Errorf("expected rate 50, got %v", cfg.Bot.GlobalRateRPS)
	}
	if cfg.SQLitePath() != "/tmp/ritsbot/users.db" {
		t.Errorf("unexpected sqlite path %q", cfg.SQLitePath())
	}
}

func TestValidateRejectsNonPositiveLimits(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_EVENTS_PER_WEBHOOK", "0")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error for zero event limit")
	}
}
