// Package webhook receives LINE webhook callbacks, extracts the
// message event and runs it through the menu dispatcher and reply
// emitter. The callback is acknowledged immediately; event processing
// happens asynchronously.
package webhook

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	apperrors "github.com/ritsnavi/rits-linebot-go/internal/errors"
	"github.com/ritsnavi/rits-linebot-go/internal/logger"
	"github.com/ritsnavi/rits-linebot-go/internal/menu"
	"github.com/ritsnavi/rits-linebot-go/internal/metrics"
	"github.com/ritsnavi/rits-linebot-go/internal/reply"
	"github.com/ritsnavi/rits-linebot-go/internal/sentry"
	"github.com/ritsnavi/rits-linebot-go/internal/storage"
)

// UserFinder is the lookup surface the handler needs
type UserFinder interface {
	FindUser(ctx context.Context, lineUserID string) (*storage.User, error)
}

// Handler handles LINE webhook callbacks
type Handler struct {
	channelSecret string
	store         UserFinder
	dispatcher    *menu.Dispatcher
	emitter       *reply.Emitter
	metrics       *metrics.Metrics
	logger        *logger.Logger
	wg            sync.WaitGroup

	maxEventsPerWebhook int
	webhookTimeout      time.Duration
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	ChannelSecret       string
	Store               UserFinder
	Dispatcher          *menu.Dispatcher
	Emitter             *reply.Emitter
	Metrics             *metrics.Metrics
	Logger              *logger.Logger
	MaxEventsPerWebhook int
	WebhookTimeout      time.Duration
}

// NewHandler creates a new webhook handler
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		channelSecret:       cfg.ChannelSecret,
		store:               cfg.Store,
		dispatcher:          cfg.Dispatcher,
		emitter:             cfg.Emitter,
		metrics:             cfg.Metrics,
		logger:              cfg.Logger.WithModule("webhook"),
		maxEventsPerWebhook: cfg.MaxEventsPerWebhook,
		webhookTimeout:      cfg.WebhookTimeout,
	}
}

// Handle is the Gin handler for the webhook endpoint
func (h *Handler) Handle(c *gin.Context) {
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("Invalid webhook signature")
			h.metrics.RecordHTTPError("invalid_signature")
			c.Status(http.StatusBadRequest)
		} else {
			h.logger.WithError(err).Error("Failed to parse webhook request")
			h.metrics.RecordHTTPError("parse_error")
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	// LINE expects a fast 2xx regardless of processing outcome
	c.Status(http.StatusOK)

	start := time.Now()

	if len(cb.Events) > h.maxEventsPerWebhook {
		h.logger.WithField("event_count", len(cb.Events)).
			WithField("limit", h.maxEventsPerWebhook).
			Warn("Too many events in webhook batch; truncating")
		cb.Events = cb.Events[:h.maxEventsPerWebhook]
	}

	// Copy events to avoid a race once the HTTP response completes
	events := make([]webhook.EventInterface, len(cb.Events))
	copy(events, cb.Events)

	h.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.WithField("panic", r).Error("Panic in async event processing")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), h.webhookTimeout)
		defer cancel()
		h.processEvents(ctx, events, start)
	})
}

// processEvents runs the first usable message event of a batch through
// dispatch and reply. Batches with no text message event are counted
// and skipped.
func (h *Handler) processEvents(ctx context.Context, events []webhook.EventInterface, start time.Time) {
	ev, ok := Extract(events)
	if !ok {
		h.logger.WithField("event_count", len(events)).Debug("No usable message event in batch")
		h.metrics.RecordWebhook("non_message", "skipped", time.Since(start).Seconds())
		return
	}

	log := h.logger.WithField("user_id", ev.UserID)

	user, err := h.store.FindUser(ctx, ev.UserID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		user = nil
		h.metrics.RecordStorage("find", "not_found")
	case err != nil:
		// Storage being down must not masquerade as "not registered"
		h.metrics.RecordStorage("find", "error")
		log.WithError(err).Error("Failed to look up user")
		sentry.CaptureExceptionWithContext(ctx, err)
		h.metrics.RecordWebhook("message", "error", time.Since(start).Seconds())
		return
	default:
		h.metrics.RecordStorage("find", "ok")
	}

	action, err := h.dispatcher.Dispatch(ctx, ev.Text, ev.UserID, user)
	if err != nil {
		h.metrics.RecordDispatch("error")
		log.WithError(err).Error("Dispatch failed")
		sentry.CaptureExceptionWithContext(ctx, err)
		h.metrics.RecordWebhook("message", "error", time.Since(start).Seconds())
		return
	}
	h.metrics.RecordDispatch(action.Kind.String())

	status := "success"
	if err := h.emitter.Emit(ctx, ev.ReplyToken, action); err != nil {
		status = "reply_error"
		sentry.CaptureExceptionWithContext(ctx, err)
	}
	h.metrics.RecordWebhook("message", status, time.Since(start).Seconds())
}

// Shutdown waits for all async event processing to complete.
// It returns an error if the context is canceled before completion.
func (h *Handler) Shutdown(ctx context.Context) error {
	c := make(chan struct{})
	go func() {
		defer close(c)
		h.wg.Wait()
	}()

	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
