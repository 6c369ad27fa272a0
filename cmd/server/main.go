// Package main provides the LINE bot server entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/ritsnavi/rits-linebot-go/internal/config"
	"github.com/ritsnavi/rits-linebot-go/internal/logger"
	"github.com/ritsnavi/rits-linebot-go/internal/menu"
	"github.com/ritsnavi/rits-linebot-go/internal/metrics"
	"github.com/ritsnavi/rits-linebot-go/internal/ratelimit"
	"github.com/ritsnavi/rits-linebot-go/internal/reply"
	"github.com/ritsnavi/rits-linebot-go/internal/sentry"
	"github.com/ritsnavi/rits-linebot-go/internal/storage"
	"github.com/ritsnavi/rits-linebot-go/internal/webhook"
)

// HTTP server timeouts. Webhook bodies are small and the handler
// acknowledges before doing any real work, so these stay tight.
const (
	httpReadTimeout  = 10 * time.Second
	httpWriteTimeout = 10 * time.Second
	httpIdleTimeout  = 120 * time.Second

	registeredUsersGaugePeriod = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithBetterStack(cfg.LogLevel, logger.BetterStackConfig{
		Token:    cfg.BetterStackToken,
		Endpoint: cfg.BetterStackEndpoint,
		Level:    cfg.LogLevel,
	})
	log.Info("Starting RitsNavi LineBot Server")

	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     cfg.SentryRelease,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize error tracking")
	} else if sentry.IsEnabled() {
		log.Info("Error tracking initialized")
		defer sentry.Flush(2 * time.Second)
	}

	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Error("Failed to open user store")
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("User store opened")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	client, err := messaging_api.NewMessagingApiAPI(cfg.LineChannelToken)
	if err != nil {
		log.WithError(err).Error("Failed to create messaging API client")
		os.Exit(1)
	}

	replyLimiter := ratelimit.New(cfg.Bot.GlobalRateRPS, cfg.Bot.GlobalRateRPS)
	emitter := reply.NewEmitter(client, replyLimiter, m, log, cfg.Bot.MinReplyTokenLength, cfg.Bot.MaxQuickReplyOptions)
	dispatcher := menu.NewDispatcher(db, m, log)

	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		ChannelSecret:       cfg.LineChannelSecret,
		Store:               db,
		Dispatcher:          dispatcher,
		Emitter:             emitter,
		Metrics:             m,
		Logger:              log,
		MaxEventsPerWebhook: cfg.Bot.MaxEventsPerWebhook,
		WebhookTimeout:      cfg.Bot.WebhookTimeout,
	})
	log.Info("Webhook handler created")

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	setupRoutes(router, webhookHandler, db, registry, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: httpWriteTimeout,
		IdleTimeout:  httpIdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		updateRegisteredUsersGauge(gctx, db, m, log)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		// Drain in-flight webhook event processing first so replies
		// already accepted still go out
		if err := webhookHandler.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Timeout waiting for event processing to finish")
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Server forced to shutdown")
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server exited with error")
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}

	log.Info("Server stopped")
}

// updateRegisteredUsersGauge periodically refreshes the registered
// users gauge from the store
func updateRegisteredUsersGauge(ctx context.Context, db *storage.DB, m *metrics.Metrics, log *logger.Logger) {
	ticker := time.NewTicker(registeredUsersGaugePeriod)
	defer ticker.Stop()

	refresh := func() {
		countCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		count, err := db.CountUsers(countCtx)
		if err != nil {
			log.WithError(err).Warn("Failed to count registered users")
			sentry.CaptureException(err)
			return
		}
		m.SetRegisteredUsers(int(count))
	}

	refresh()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
