package reply

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ritsnavi/rits-linebot-go/internal/logger"
	"github.com/ritsnavi/rits-linebot-go/internal/menu"
	"github.com/ritsnavi/rits-linebot-go/internal/metrics"
	"github.com/ritsnavi/rits-linebot-go/internal/ratelimit"
)

type fakeClient struct {
	requests []*messaging_api.ReplyMessageRequest
	failWith error
}

func (f *fakeClient) ReplyMessage(request *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error) {
	f.requests = append(f.requests, request)
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &messaging_api.ReplyMessageResponse{}, nil
}

func newTestEmitter(client MessagingClient) *Emitter {
	m := metrics.New(prometheus.NewRegistry())
	log := logger.NewWithWriter("error", io.Discard)
	return NewEmitter(client, ratelimit.New(100, 100), m, log, 10, 13)
}

func TestEmitPlainText(t *testing.T) {
	client := &fakeClient{}
	e := newTestEmitter(client)

	err := e.Emit(context.Background(), "token-1234567890", menu.PlainText("アンケートは既に回答済みです。"))
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if len(client.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(client.requests))
	}

	req := client.requests[0]
	if req.ReplyToken != "token-1234567890" {
		t.Errorf("unexpected reply token %q", req.ReplyToken)
	}
	if len(req.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(req.Messages))
	}
	msg, ok := req.Messages[0].(*messaging_api.TextMessage)
	if !ok {
		t.Fatalf("expected text message, got %T", req.Messages[0])
	}
	if msg.Text != "アンケートは既に回答済みです。" {
		t.Errorf("unexpected message text %q", msg.Text)
	}
	if msg.QuickReply != nil {
		t.Error("plain text reply should carry no quick reply")
	}
}

func TestEmitQuickReply(t *testing.T) {
	client := &fakeClient{}
	e := newTestEmitter(client)

	action := menu.QuickReply("取得したい大学エリアを指定してください", "立命館大学OICエリア", "立命館大学BKCエリア")
	if err := e.Emit(context.Background(), "token-1234567890", action); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	msg, ok := client.requests[0].Messages[0].(*messaging_api.TextMessage)
	if !ok {
		t.Fatalf("expected text message, got %T", client.requests[0].Messages[0])
	}
	if msg.QuickReply == nil {
		t.Fatal("expected quick reply items")
	}
	if len(msg.QuickReply.Items) != 2 {
		t.Fatalf("expected 2 quick reply items, got %d", len(msg.QuickReply.Items))
	}

	// The tap text must reproduce the exact trigger string
	action0, ok := msg.QuickReply.Items[0].Action.(*messaging_api.MessageAction)
	if !ok {
		t.Fatalf("expected message action, got %T", msg.QuickReply.Items[0].Action)
	}
	if action0.Text != "立命館大学OICエリア" {
		t.Errorf("unexpected tap text %q", action0.Text)
	}
}

func TestEmitQuickReplyWithoutOptions(t *testing.T) {
	client := &fakeClient{}
	e := newTestEmitter(client)

	action := menu.QuickReply("あいうえおの次の文字を選択してください。")
	if err := e.Emit(context.Background(), "token-1234567890", action); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	msg := client.requests[0].Messages[0].(*messaging_api.TextMessage)
	if msg.QuickReply != nil {
		t.Error("expected a plain text message when the option list is empty")
	}
}

func TestEmitCapsQuickReplyOptions(t *testing.T) {
	client := &fakeClient{}
	m := metrics.New(prometheus.NewRegistry())
	log := logger.NewWithWriter("error", io.Discard)
	e := NewEmitter(client, ratelimit.New(100, 100), m, log, 10, 2)

	action := menu.QuickReply("取得したい大学エリアを指定してください",
		"立命館大学OICエリア", "立命館大学BKCエリア", "あいうえお")
	if err := e.Emit(context.Background(), "token-1234567890", action); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	msg := client.requests[0].Messages[0].(*messaging_api.TextMessage)
	if msg.QuickReply == nil {
		t.Fatal("expected quick reply items")
	}
	if len(msg.QuickReply.Items) != 2 {
		t.Errorf("expected options capped at 2, got %d", len(msg.QuickReply.Items))
	}
}

func TestEmitNoMatchSendsNothing(t *testing.T) {
	client := &fakeClient{}
	e := newTestEmitter(client)

	if err := e.Emit(context.Background(), "token-1234567890", menu.NoMatch()); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if len(client.requests) != 0 {
		t.Errorf("expected no requests, got %d", len(client.requests))
	}
}

func TestEmitShortReplyTokenSkipped(t *testing.T) {
	client := &fakeClient{}
	e := newTestEmitter(client)

	if err := e.Emit(context.Background(), "short", menu.PlainText("hello")); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if len(client.requests) != 0 {
		t.Errorf("expected no requests for short token, got %d", len(client.requests))
	}
}

func TestEmitSendError(t *testing.T) {
	client := &fakeClient{failWith: errors.New("connection refused")}
	e := newTestEmitter(client)

	err := e.Emit(context.Background(), "token-1234567890", menu.PlainText("hello"))
	if err == nil {
		t.Fatal("expected send error to surface")
	}
}

func TestEmitInvalidReplyTokenNotAnError(t *testing.T) {
	client := &fakeClient{failWith: errors.New("Invalid reply token")}
	e := newTestEmitter(client)

	if err := e.Emit(context.Background(), "token-1234567890", menu.PlainText("hello")); err != nil {
		t.Fatalf("used reply token should not surface as an error: %v", err)
	}
}
