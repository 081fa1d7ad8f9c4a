package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerNotifierWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	n := NewLoggerNotifier(zerolog.New(&buf))

	err := n.Send(context.Background(), Message{
		Kind:        KindWithdrawalApproved,
		Destination: "user-1",
		RequestID:   "req-1",
		Amount:      500,
		Body:        "withdrawal approved",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["kind"] != KindWithdrawalApproved {
		t.Fatalf("expected kind %s, got %v", KindWithdrawalApproved, line["kind"])
	}
	if line["destination"] != "user-1" {
		t.Fatalf("unexpected destination %v", line["destination"])
	}
	if line["message"] != "withdrawal approved" {
		t.Fatalf("unexpected message %v", line["message"])
	}
}

func TestNilLoggerNotifier(t *testing.T) {
	var n *LoggerNotifier
	if err := n.Send(context.Background(), Message{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
