// Package reply sends dispatch outcomes back to the user through the
// LINE Messaging API reply endpoint.
package reply

import (
	"context"
	"fmt"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/ritsnavi/rits-linebot-go/internal/lineutil"
	"github.com/ritsnavi/rits-linebot-go/internal/logger"
	"github.com/ritsnavi/rits-linebot-go/internal/menu"
	"github.com/ritsnavi/rits-linebot-go/internal/metrics"
	"github.com/ritsnavi/rits-linebot-go/internal/ratelimit"
)

// MessagingClient is the subset of the LINE SDK the emitter needs
type MessagingClient interface {
	ReplyMessage(request *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// Emitter sends reply actions addressed by reply token
type Emitter struct {
	client      MessagingClient
	rateLimiter *ratelimit.Limiter
	metrics     *metrics.Metrics
	log         *logger.Logger

	minReplyTokenLength  int
	maxQuickReplyOptions int
}

// NewEmitter creates an emitter around the given messaging client
func NewEmitter(client MessagingClient, rateLimiter *ratelimit.Limiter, m *metrics.Metrics, log *logger.Logger, minReplyTokenLength, maxQuickReplyOptions int) *Emitter {
	return &Emitter{
		client:               client,
		rateLimiter:          rateLimiter,
		metrics:              m,
		log:                  log.WithModule("reply"),
		minReplyTokenLength:  minReplyTokenLength,
		maxQuickReplyOptions: maxQuickReplyOptions,
	}
}

// Emit sends the action's reply to the given reply token. NoMatch
// actions send nothing and always succeed. Send failures are recorded
// and returned; callers acknowledge the webhook regardless.
func (e *Emitter) Emit(ctx context.Context, replyToken string, action menu.Action) error {
	if action.Kind == menu.KindNoMatch {
		return nil
	}

	if replyToken == "" {
		e.log.Debug("Empty reply token, skipping reply")
		return nil
	}
	if len(replyToken) < e.minReplyTokenLength {
		e.log.WithField("token_length", len(replyToken)).Debug("Invalid reply token format")
		return nil
	}

	var msg *messaging_api.TextMessage
	kind := "text"
	switch action.Kind {
	case menu.KindQuickReply:
		options := action.Options
		if len(options) > e.maxQuickReplyOptions {
			e.log.WithField("option_count", len(options)).
				WithField("limit", e.maxQuickReplyOptions).
				Warn("Option count exceeds limit; truncating")
			options = options[:e.maxQuickReplyOptions]
		}
		msg = lineutil.NewQuickReplyTextMessage(action.Prompt, options)
		if len(options) > 0 {
			kind = "quick_reply"
		}
	default:
		msg = lineutil.NewTextMessage(action.Text)
	}

	// Global rate limit across all outbound replies
	if !e.rateLimiter.Allow() {
		e.log.Warn("Global rate limit exceeded; waiting")
		if err := e.rateLimiter.Wait(ctx); err != nil {
			e.metrics.RecordReply(kind, "error")
			return fmt.Errorf("rate limit wait cancelled: %w", err)
		}
	}

	_, err := e.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   []messaging_api.MessageInterface{msg},
	})
	if err != nil {
		e.metrics.RecordReply(kind, "error")
		if strings.Contains(err.Error(), "Invalid reply token") {
			e.log.WithError(err).Debug("Reply token already used or invalid")
			return nil
		}
		e.log.WithError(err).Error("Failed to send reply")
		return fmt.Errorf("failed to send reply: %w", err)
	}

	e.metrics.RecordReply(kind, "success")
	return nil
}
