package lineutil

import (
	"strings"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

func TestNewTextMessageTruncates(t *testing.T) {
	long := strings.Repeat("a", MaxTextMessageLength+100)
	msg := NewTextMessage(long)
	if len(msg.Text) > MaxTextMessageLength {
		t.Errorf("text length = %d, want <= %d", len(msg.Text), MaxTextMessageLength)
	}
	if !strings.HasSuffix(msg.Text, "...") {
		t.Error("truncated text should end with ellipsis")
	}
}

func TestNewQuickReplyCapsItems(t *testing.T) {
	items := make([]QuickReplyItem, MaxQuickReplyItemCount+5)
	for i := range items {
		items[i] = QuickReplyItem{Action: NewMessageAction("a", "a")}
	}

	qr := NewQuickReply(items)
	if len(qr.Items) != MaxQuickReplyItemCount {
		t.Errorf("item count = %d, want %d", len(qr.Items), MaxQuickReplyItemCount)
	}
}

func TestNewQuickReplyTextMessage(t *testing.T) {
	options := []string{"立命館大学OICエリア", "立命館大学BKCエリア"}
	msg := NewQuickReplyTextMessage("取得したい大学エリアを指定してください", options)

	if msg.QuickReply == nil {
		t.Fatal("quick reply should be set when options are present")
	}
	if len(msg.QuickReply.Items) != len(options) {
		t.Fatalf("item count = %d, want %d", len(msg.QuickReply.Items), len(options))
	}

	// Tap text must reproduce the option label verbatim
	for i, item := range msg.QuickReply.Items {
		action, ok := item.Action.(*messaging_api.MessageAction)
		if !ok {
			t.Fatalf("item %d: action is %T, want MessageAction", i, item.Action)
		}
		if action.Text != options[i] {
			t.Errorf("item %d: tap text = %q, want %q", i, action.Text, options[i])
		}
	}
}

func TestNewQuickReplyTextMessageNoOptions(t *testing.T) {
	msg := NewQuickReplyTextMessage("あいうえおの次の文字を選択してください。", nil)
	if msg.QuickReply != nil {
		t.Error("quick reply should be nil when no options are given")
	}
}
