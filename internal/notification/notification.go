package notification

import (
	"context"

	"github.com/rs/zerolog"
)

const (
	KindSubmissionApproved = "submission_approved"
	KindSubmissionRejected = "submission_rejected"
	KindWithdrawalApproved = "withdrawal_approved"
	KindWithdrawalRejected = "withdrawal_rejected"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	RequestID   string
	Amount      int64
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the logger instead of a delivery channel.
type LoggerNotifier struct {
	logger zerolog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger zerolog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger.With().Str("component", "notification").Logger()}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil {
		return nil
	}
	n.logger.Info().
		Str("kind", message.Kind).
		Str("destination", message.Destination).
		Str("request_id", message.RequestID).
		Int64("amount", message.Amount).
		Msg(message.Body)
	return nil
}

// Nop discards every message.
type Nop struct{}

func (Nop) Send(context.Context, Message) error { return nil }
