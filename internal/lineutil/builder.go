// Package lineutil provides utility functions for building LINE messages
// and quick reply actions within the messaging API limits.
package lineutil

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// QuickReplyItem represents an item in a quick reply.
type QuickReplyItem struct {
	ImageURL string
	Action   messaging_api.ActionInterface
}

// Action is an alias for the LINE SDK action interface for convenience.
type Action = messaging_api.ActionInterface

// NewTextMessage creates a simple text message.
// LINE API limits: max 5000 characters per text message.
func NewTextMessage(text string) *messaging_api.TextMessage {
	if len(text) > MaxTextMessageLength {
		text = TruncateRunes(text, MaxTextMessageLength-3) + "..."
	}

	return &messaging_api.TextMessage{
		Text: text,
	}
}

// NewMessageAction creates a message action that sends a message when tapped.
// The label is displayed on the button, and text is the message that will be sent.
func NewMessageAction(label, text string) Action {
	return &messaging_api.MessageAction{
		Label: label,
		Text:  text,
	}
}

// NewQuickReply creates a quick reply component from items.
// LINE API limits: max 13 items.
func NewQuickReply(items []QuickReplyItem) *messaging_api.QuickReply {
	if len(items) > MaxQuickReplyItemCount {
		items = items[:MaxQuickReplyItemCount]
	}

	quickReplyItems := make([]messaging_api.QuickReplyItem, len(items))
	for i, item := range items {
		qrItem := messaging_api.QuickReplyItem{
			Action: item.Action,
		}
		if item.ImageURL != "" {
			qrItem.ImageUrl = item.ImageURL
		}
		quickReplyItems[i] = qrItem
	}

	return &messaging_api.QuickReply{
		Items: quickReplyItems,
	}
}

// NewQuickReplyTextMessage creates a text message with tappable options.
// Each option is rendered as a message action whose tap text equals the
// label, so the user's next tap reproduces the exact trigger string.
func NewQuickReplyTextMessage(text string, options []string) *messaging_api.TextMessage {
	msg := NewTextMessage(text)
	if len(options) == 0 {
		return msg
	}

	items := make([]QuickReplyItem, 0, len(options))
	for _, label := range options {
		display := label
		if len([]rune(display)) > MaxQuickReplyLabel {
			display = TruncateRunes(display, MaxQuickReplyLabel)
		}
		items = append(items, QuickReplyItem{Action: NewMessageAction(display, label)})
	}

	msg.QuickReply = NewQuickReply(items)
	return msg
}

// TruncateRunes truncates s to at most n runes.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
