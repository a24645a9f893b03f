package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/Sadman95/bike-island-server/domain"
)

// SMTPConfig holds the outgoing mail server settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MailServiceImpl implements domain.MailService over SMTP
type MailServiceImpl struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewMailService creates a new SMTP mail service
func NewMailService(cfg SMTPConfig, logger *slog.Logger) domain.MailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MailServiceImpl{cfg: cfg, logger: logger}
}

// Send implements domain.MailService
func (s *MailServiceImpl) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg, err := s.buildMessage(to, subject, htmlBody)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}

	// If the server is not configured, log instead of sending
	if s.cfg.Host == "" {
		s.logger.InfoContext(ctx, "mock email", "to", to, "subject", subject)
		return nil
	}

	client, err := s.client()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "email delivery failed", "to", to, "subject", subject, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}
	return nil
}

func (s *MailServiceImpl) buildMessage(to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", s.cfg.From, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}

func (s *MailServiceImpl) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return mail.NewClient(s.cfg.Host, opts...)
}
