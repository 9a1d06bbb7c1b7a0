package services

import (
	"context"
	"fmt"

	"github.com/sharpfade/barber-booking-api/config"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// EmailMessage is a rendered email ready for delivery.
type EmailMessage struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer delivers rendered emails.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// NewMailer returns an SMTP mailer when SMTP is configured and a logging
// mailer otherwise.
func NewMailer(cfg *config.Config, logger *zap.Logger) Mailer {
	if cfg.SMTPEnabled() {
		return NewSMTPMailer(cfg)
	}
	return &LogMailer{logger: orNop(logger)}
}

// SMTPMailer sends email through an SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates an SMTPMailer from configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
	}
}

// Send dials the relay and delivers msg.
func (m *SMTPMailer) Send(ctx context.Context, msg EmailMessage) error {
	message := mail.NewMsg()
	if err := message.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := message.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.username),
			mail.WithPassword(m.password),
		)
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct {
	logger *zap.Logger
}

// Send logs the message.
func (m *LogMailer) Send(ctx context.Context, msg EmailMessage) error {
	m.logger.Info("email not sent, smtp disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.HTMLBody)),
	)
	return nil
}
