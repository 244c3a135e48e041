package email

import (
	"context"
	"log/slog"

	"bookify/internal/app/notify"
)

// LogSender writes outgoing mail to the log instead of delivering it.
// Stand-in for a real provider in dev and tests.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, recipient, subject, body string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("email sent", "to", recipient, "subject", subject, "body", body)
	return nil
}

var _ notify.EmailSender = LogSender{}
