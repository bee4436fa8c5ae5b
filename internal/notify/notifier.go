// AngelaMos | 2026
// notifier.go

package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/pulsecrm/pulse-crm/internal/core"
	"github.com/pulsecrm/pulse-crm/internal/lead"
)

const (
	outcomeSent   = "sent"
	outcomeFailed = "failed"
)

// ShouldNotify is true only on the edge into WON.
func ShouldNotify(previousStatus, currentStatus string) bool {
	return previousStatus != lead.StatusWon && currentStatus == lead.StatusWon
}

// StatusChangeNotifier emails a lead's owner when the lead is won.
// Delivery failures are logged and counted, never returned.
type StatusChangeNotifier struct {
	sender  Sender
	timeout time.Duration
	logger  *slog.Logger
	metrics *core.Metrics
}

func NewStatusChangeNotifier(
	sender Sender,
	timeout time.Duration,
	logger *slog.Logger,
	metrics *core.Metrics,
) *StatusChangeNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusChangeNotifier{
		sender:  sender,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

func (n *StatusChangeNotifier) LeadUpdated(
	ctx context.Context,
	previous lead.Lead,
	current lead.LeadWithOwner,
) {
	if !ShouldNotify(previous.Status, current.Status) {
		return
	}

	sendCtx := context.WithoutCancel(ctx)
	if n.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(sendCtx, n.timeout)
		defer cancel()
	}

	msg := NewLeadWonMessage(current)

	sendCtx, span := core.StartSpan(sendCtx, "notify.lead_won",
		core.AttrLeadID.String(current.ID),
		core.AttrPreviousStatus.String(previous.Status),
		core.AttrNotifyProvider.String(ProviderName(n.sender)),
	)
	defer span.End()

	if err := n.sender.SendLeadWon(sendCtx, msg); err != nil {
		core.SetSpanError(sendCtx, err)
		n.logger.ErrorContext(ctx, "lead won notification failed",
			"lead_id", current.ID,
			"to", msg.RecipientEmail,
			"error", err,
		)
		n.count(outcomeFailed)
		return
	}

	core.AddSpanEvent(sendCtx, "lead_won_notification_sent",
		core.AttrRecipient.String(msg.RecipientEmail),
	)
	n.logger.InfoContext(ctx, "lead won notification sent",
		"lead_id", current.ID,
		"to", msg.RecipientEmail,
	)
	n.count(outcomeSent)
}

func (n *StatusChangeNotifier) count(outcome string) {
	if n.metrics == nil {
		return
	}
	n.metrics.NotificationsTotal.WithLabelValues(outcome).Inc()
}

var _ lead.UpdateObserver = (*StatusChangeNotifier)(nil)
