package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned by a channel that lacks credentials. Such
// dispatches are recorded as skipped and never retried.
var ErrNotConfigured = errors.New("notification channel not configured")

// SMSProvider delivers a text message to a phone number.
type SMSProvider interface {
	Name() string
	Send(ctx context.Context, phone, message string) error
}

// LogProvider writes messages to the log instead of sending them. It is the
// development default.
type LogProvider struct {
	log *zap.Logger
}

func NewLogProvider(log *zap.Logger) *LogProvider {
	return &LogProvider{log: log}
}

func (p *LogProvider) Name() string { return "log" }

func (p *LogProvider) Send(_ context.Context, phone, message string) error {
	p.log.Info("sms (log provider)", zap.String("phone", maskPhone(phone)), zap.Int("length", len(message)))
	return nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	masked := make([]byte, len(phone))
	for i := range phone {
		if i < len(phone)-4 {
			masked[i] = '*'
		} else {
			masked[i] = phone[i]
		}
	}
	return string(masked)
}
