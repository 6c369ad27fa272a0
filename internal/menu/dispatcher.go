package menu

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/ritsnavi/rits-linebot-go/internal/errors"
	"github.com/ritsnavi/rits-linebot-go/internal/logger"
	"github.com/ritsnavi/rits-linebot-go/internal/metrics"
	"github.com/ritsnavi/rits-linebot-go/internal/storage"
)

// UserStore is the persistence surface the dispatcher needs
type UserStore interface {
	RegisterUser(ctx context.Context, lineUserID string) error
}

// Dispatcher resolves inbound message text against the rule table
type Dispatcher struct {
	store   UserStore
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewDispatcher creates a dispatcher backed by the given user store
func NewDispatcher(store UserStore, m *metrics.Metrics, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		store:   store,
		metrics: m,
		log:     log.WithModule("menu"),
	}
}

// Dispatch maps one message to a reply action. user is nil when the
// sender has not completed the survey registration. The returned error
// is non-nil only for storage failures on the registration path; guard
// failures and unknown triggers are normal Action outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, text, lineUserID string, user *storage.User) (Action, error) {
	rule, ok := rules[text]
	if !ok {
		return NoMatch(), nil
	}

	switch rule.Guard {
	case GuardNone:
		return rule.Action, nil

	case GuardRegistered:
		if user == nil {
			return Rejected(rule.RejectText), nil
		}
		return rule.Action, nil

	case GuardRegister:
		if user != nil {
			return Rejected(rule.RejectText), nil
		}

		err := d.store.RegisterUser(ctx, lineUserID)
		if errors.Is(err, apperrors.ErrAlreadyRegistered) {
			// Lost a race with a concurrent registration; report the
			// same outcome as an up-front registered lookup
			d.metrics.RecordStorage("register", "duplicate")
			return Rejected(rule.RejectText), nil
		}
		if err != nil {
			d.metrics.RecordStorage("register", "error")
			return NoMatch(), fmt.Errorf("failed to register user: %w", err)
		}

		d.metrics.RecordStorage("register", "ok")
		d.log.Info("user registered", "user_id", lineUserID)
		return rule.Action, nil

	default:
		return NoMatch(), fmt.Errorf("unknown guard %d for trigger %q", rule.Guard, text)
	}
}
