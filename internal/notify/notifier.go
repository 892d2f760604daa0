// Package notify delivers customer-facing notifications after lifecycle
// events. Delivery is fire-and-forget: a failed notification is logged and
// never rolls back the state change that triggered it.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Event identifies what happened; templates and channels hang off it.
type Event string

const (
	EventQuoteSent       Event = "quote_sent"
	EventOrderConfirmed  Event = "order_confirmed"
	EventPaymentReceived Event = "payment_received"
	EventOrderReady      Event = "order_ready"
)

// Notification is one message to a contact.
type Notification struct {
	Event   Event
	OrderID int
	Contact string // contact email or phone, may be empty
	Detail  string
}

// Notifier sends notifications. Implementations must not block the caller
// beyond a normal request timeout.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to the structured log instead of sending
// them anywhere. It is the default until an email integration is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Notification) {
	n.logger.Info("notification",
		zap.String("event", string(msg.Event)),
		zap.Int("order_id", msg.OrderID),
		zap.String("contact", msg.Contact),
		zap.String("detail", msg.Detail),
	)
}
