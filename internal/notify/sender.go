// AngelaMos | 2026
// sender.go

package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pulsecrm/pulse-crm/internal/config"
)

type Sender interface {
	SendLeadWon(ctx context.Context, msg LeadWonMessage) error
}

// NewSender picks the delivery backend named by cfg.Provider.
func NewSender(cfg config.NotifyConfig, logger *slog.Logger) (Sender, error) {
	switch cfg.Provider {
	case config.NotifyProviderSMTP:
		return NewSMTPSender(cfg), nil
	case config.NotifyProviderSendGrid:
		return NewSendGridSender(cfg), nil
	case config.NotifyProviderLog, "":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown notify provider %q", cfg.Provider)
	}
}

// ProviderName names the delivery backend behind s for logs and traces.
func ProviderName(s Sender) string {
	switch s.(type) {
	case *SMTPSender:
		return config.NotifyProviderSMTP
	case *SendGridSender:
		return config.NotifyProviderSendGrid
	case *LogSender:
		return config.NotifyProviderLog
	default:
		return "custom"
	}
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendLeadWon(ctx context.Context, msg LeadWonMessage) error {
	s.logger.InfoContext(ctx, "lead won email (not delivered)",
		"to", msg.RecipientEmail,
		"subject", msg.Subject(),
		"lead_id", msg.LeadID,
	)
	return nil
}
