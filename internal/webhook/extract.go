package webhook

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// InboundEvent is the usable content of one inbound message event
type InboundEvent struct {
	Text       string
	ReplyToken string
	UserID     string
}

// Extract pulls the message text, reply token and sender out of the
// first event in a webhook callback. It returns ok=false for empty
// batches and for events that carry no user text message (delivery
// receipts, follows, stickers and so on); that is a normal outcome,
// not a failure.
func Extract(events []webhook.EventInterface) (InboundEvent, bool) {
	if len(events) == 0 {
		return InboundEvent{}, false
	}

	msgEvent, ok := events[0].(webhook.MessageEvent)
	if !ok {
		return InboundEvent{}, false
	}

	textMsg, ok := msgEvent.Message.(webhook.TextMessageContent)
	if !ok {
		return InboundEvent{}, false
	}

	source, ok := msgEvent.Source.(webhook.UserSource)
	if !ok {
		return InboundEvent{}, false
	}

	if msgEvent.ReplyToken == "" || source.UserId == "" {
		return InboundEvent{}, false
	}

	return InboundEvent{
		Text:       textMsg.Text,
		ReplyToken: msgEvent.ReplyToken,
		UserID:     source.UserId,
	}, true
}
