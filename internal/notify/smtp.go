// AngelaMos | 2026
// smtp.go

package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/pulsecrm/pulse-crm/internal/config"
)

type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPSender(cfg config.NotifyConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUser,
			cfg.SMTPPassword,
		),
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
	}
}

func (s *SMTPSender) buildMessage(msg LeadWonMessage) (*gomail.Message, error) {
	html, err := msg.HTMLBody()
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetAddressHeader("To", msg.RecipientEmail, msg.RecipientName)
	m.SetHeader("Subject", msg.Subject())
	m.SetBody("text/plain", msg.PlainBody())
	m.AddAlternative("text/html", html)

	return m, nil
}

// SendLeadWon dials per message; gomail has no context support so the
// send is abandoned, not interrupted, when ctx ends first.
func (s *SMTPSender) SendLeadWon(ctx context.Context, msg LeadWonMessage) error {
	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send smtp email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send smtp email: %w", ctx.Err())
	}
}
