package notification

import (
	"context"
	"log/slog"

	"github.com/SscSPs/balance_ledger/internal/middleware"
)

// Sender delivers a rendered alert.
type Sender interface {
	Send(ctx context.Context, alert Alert) error
}

// LogSender writes alerts to the structured log instead of delivering them.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, alert Alert) error {
	middleware.GetLoggerFromCtx(ctx).Info("Notification sent",
		slog.String("to", alert.To),
		slog.String("subject", alert.Subject),
		slog.String("body", alert.Body))
	return nil
}
