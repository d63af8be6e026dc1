package mail

import (
	"bytes"
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/francisjavinico/backend-tintado/internal/infrastructure/config"
)

// Attachment is a file attached to an outgoing email
type Attachment struct {
	Filename    string
	Data        []byte
	ContentType string
}

// Message is an outgoing email
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer sends email on behalf of the workshop
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers mail through the configured SMTP relay
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers one message. A fresh connection is dialed per message;
// dispatch volume here is a handful of emails a day.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	message := gomail.NewMsg()
	if err := message.From(m.cfg.From); err != nil {
		return fmt.Errorf("mail from %q: %w", m.cfg.From, err)
	}
	if err := message.To(msg.To); err != nil {
		return fmt.Errorf("mail to %q: %w", msg.To, err)
	}
	message.Subject(msg.Subject)
	message.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	for _, att := range msg.Attachments {
		opts := []gomail.FileOption{}
		if att.ContentType != "" {
			opts = append(opts, gomail.WithFileContentType(gomail.ContentType(att.ContentType)))
		}
		if err := message.AttachReader(att.Filename, bytes.NewReader(att.Data), opts...); err != nil {
			return fmt.Errorf("attach %s: %w", att.Filename, err)
		}
	}

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	m.logger.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)))
	return nil
}

// Ensure SMTPMailer implements the interface
var _ Mailer = (*SMTPMailer)(nil)

// NoopMailer drops messages. Used when mail delivery is disabled, e.g.
// in development environments.
type NoopMailer struct {
	logger *zap.Logger
}

// NewNoopMailer creates a new NoopMailer
func NewNoopMailer(logger *zap.Logger) *NoopMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopMailer{logger: logger}
}

// Send logs the message and discards it
func (m *NoopMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("mail delivery disabled, dropping message",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// Ensure NoopMailer implements the interface
var _ Mailer = (*NoopMailer)(nil)
