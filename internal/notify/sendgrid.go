// AngelaMos | 2026
// sendgrid.go

package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/pulsecrm/pulse-crm/internal/config"
)

type SendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewSendGridSender(cfg config.NotifyConfig) *SendGridSender {
	return &SendGridSender{
		client:   sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
	}
}

func (s *SendGridSender) SendLeadWon(ctx context.Context, msg LeadWonMessage) error {
	html, err := msg.HTMLBody()
	if err != nil {
		return err
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.from),
		msg.Subject(),
		mail.NewEmail(msg.RecipientName, msg.RecipientEmail),
		msg.PlainBody(),
		html,
	)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send sendgrid email: %w", err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf(
			"send sendgrid email: status %d: %s",
			response.StatusCode,
			response.Body,
		)
	}

	return nil
}
