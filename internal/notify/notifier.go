package notify

import (
	"context"

	"go.uber.org/zap"
)

// Kind selects the outbound transport for a message.
type Kind string

const (
	KindEmail Kind = "email"
	KindSMS   Kind = "sms"
)

// Message is a single outbound notification. Subject is ignored by SMS
// transports.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	Body    string
}

// Notifier sends an outbound message. Implementations are selected at
// startup; callers treat Send as best-effort and must not surface its
// errors to the user.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the log instead of delivering them. It is
// the fallback when no gateway is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds a log-only notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the message and reports success.
func (n *LogNotifier) Send(_ context.Context, msg Message) error {
	n.logger.Info("notification (log only)",
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
