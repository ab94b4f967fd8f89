package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Email is an outbound message. Attachments are file paths on disk.
type Email struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// SMTPConfig holds relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers mail through an authenticated SMTP relay. Port 465
// uses implicit TLS; other ports upgrade with STARTTLS when offered.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	msg := mail.NewMsg()
	from := e.From
	if from == "" {
		from = m.cfg.From
	}
	if err := msg.From(from); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(e.To...); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(e.Subject)
	msg.SetBodyString(mail.TypeTextHTML, e.HTML)
	if e.Text != "" {
		msg.AddAlternativeString(mail.TypeTextPlain, e.Text)
	}
	for _, path := range e.Attachments {
		msg.AttachFile(path)
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	}
	if m.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// unconfiguredMailer stands in when SMTP settings are absent.
type unconfiguredMailer struct{}

func (unconfiguredMailer) Send(context.Context, Email) error {
	return fmt.Errorf("smtp: %w", ErrNotConfigured)
}
