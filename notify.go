package identity

import (
	"context"

	"github.com/goliatone/go-print"
)

// LogNotificationSink writes reset notifications to the logger instead of an
// outbound mail provider. It stands in for a real delivery channel in
// development and in tests.
type LogNotificationSink struct {
	// ResetURL, when set, is prepended to the token in the logged message
	// so the link can be followed directly.
	ResetURL string
	logger   Logger
}

func NewLogNotificationSink() *LogNotificationSink {
	return &LogNotificationSink{
		logger: defLogger{},
	}
}

func (s *LogNotificationSink) WithLogger(logger Logger) *LogNotificationSink {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *LogNotificationSink) NotifyPasswordReset(ctx context.Context, email, displayName, token string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	link := token
	if s.ResetURL != "" {
		link = s.ResetURL + "?token=" + token
	}

	payload := map[string]any{
		"to":      email,
		"name":    displayName,
		"subject": "Password reset requested",
		"link":    link,
	}

	s.logger.Info("password reset notification: %s", print.MaybePrettyJSON(payload))

	return nil
}
