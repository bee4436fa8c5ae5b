// AngelaMos | 2026
// notifier_test.go

package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/pulsecrm/pulse-crm/internal/core"
	"github.com/pulsecrm/pulse-crm/internal/lead"
)

type fakeSender struct {
	sendFn func(ctx context.Context, msg LeadWonMessage) error
	sent   []LeadWonMessage
}

func (f *fakeSender) SendLeadWon(ctx context.Context, msg LeadWonMessage) error {
	f.sent = append(f.sent, msg)
	if f.sendFn != nil {
		return f.sendFn(ctx, msg)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func wonLead(status string) lead.LeadWithOwner {
	return lead.LeadWithOwner{
		Lead: lead.Lead{
			ID:      "lead-1",
			Name:    "Acme Deal",
			Email:   "buyer@acme.test",
			Company: "Acme",
			Status:  status,
			OwnerID: "user-1",
		},
		OwnerName:  "Alice",
		OwnerEmail: "alice@example.com",
	}
}

func TestShouldNotify(t *testing.T) {
	tests := []struct {
		previous string
		current  string
		want     bool
	}{
		{lead.StatusNew, lead.StatusWon, true},
		{lead.StatusProposal, lead.StatusWon, true},
		{lead.StatusLost, lead.StatusWon, true},
		{lead.StatusWon, lead.StatusWon, false},
		{lead.StatusWon, lead.StatusLost, false},
		{lead.StatusNew, lead.StatusContacted, false},
		{lead.StatusQualified, lead.StatusQualified, false},
	}

	for _, tt := range tests {
		t.Run(tt.previous+"->"+tt.current, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldNotify(tt.previous, tt.current))
		})
	}
}

func TestStatusChangeNotifier_SendsOnTransitionToWon(t *testing.T) {
	sender := &fakeSender{}
	metrics := core.NewMetrics(prometheus.NewRegistry())
	n := NewStatusChangeNotifier(sender, time.Second, discardLogger(), metrics)

	n.LeadUpdated(
		context.Background(),
		lead.Lead{ID: "lead-1", Status: lead.StatusProposal},
		wonLead(lead.StatusWon),
	)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "alice@example.com", msg.RecipientEmail)
	assert.Equal(t, "Alice", msg.RecipientName)
	assert.Equal(t, "Acme Deal", msg.LeadName)
	assert.Equal(t, float64(1), testutil.ToFloat64(
		metrics.NotificationsTotal.WithLabelValues(outcomeSent),
	))
}

func TestStatusChangeNotifier_SkipsWhenAlreadyWon(t *testing.T) {
	sender := &fakeSender{}
	n := NewStatusChangeNotifier(sender, time.Second, discardLogger(), nil)

	n.LeadUpdated(
		context.Background(),
		lead.Lead{ID: "lead-1", Status: lead.StatusWon},
		wonLead(lead.StatusWon),
	)

	assert.Empty(t, sender.sent)
}

func TestStatusChangeNotifier_SkipsNonWonTransitions(t *testing.T) {
	sender := &fakeSender{}
	n := NewStatusChangeNotifier(sender, time.Second, discardLogger(), nil)

	n.LeadUpdated(
		context.Background(),
		lead.Lead{ID: "lead-1", Status: lead.StatusNew},
		wonLead(lead.StatusContacted),
	)

	assert.Empty(t, sender.sent)
}

func TestStatusChangeNotifier_SwallowsSendErrors(t *testing.T) {
	sender := &fakeSender{
		sendFn: func(context.Context, LeadWonMessage) error {
			return errors.New("smtp: connection refused")
		},
	}
	metrics := core.NewMetrics(prometheus.NewRegistry())
	n := NewStatusChangeNotifier(sender, time.Second, discardLogger(), metrics)

	assert.NotPanics(t, func() {
		n.LeadUpdated(
			context.Background(),
			lead.Lead{ID: "lead-1", Status: lead.StatusNew},
			wonLead(lead.StatusWon),
		)
	})

	assert.Len(t, sender.sent, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(
		metrics.NotificationsTotal.WithLabelValues(outcomeFailed),
	))
	assert.Equal(t, float64(0), testutil.ToFloat64(
		metrics.NotificationsTotal.WithLabelValues(outcomeSent),
	))
}

func TestStatusChangeNotifier_OutlivesRequestCancellation(t *testing.T) {
	var sendErr error
	sender := &fakeSender{
		sendFn: func(ctx context.Context, _ LeadWonMessage) error {
			sendErr = ctx.Err()
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return nil
		},
	}
	n := NewStatusChangeNotifier(sender, time.Second, discardLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n.LeadUpdated(ctx, lead.Lead{Status: lead.StatusNew}, wonLead(lead.StatusWon))

	require.Len(t, sender.sent, 1)
	assert.NoError(t, sendErr)
}

// Alice moves one lead through the funnel; exactly one email goes out.
func TestStatusChangeNotifier_StatusSequence(t *testing.T) {
	sender := &fakeSender{}
	n := NewStatusChangeNotifier(sender, time.Second, discardLogger(), nil)

	sequence := []string{
		lead.StatusNew,
		lead.StatusContacted,
		lead.StatusProposal,
		lead.StatusWon,
		lead.StatusWon,
		lead.StatusLost,
	}

	for i := 1; i < len(sequence); i++ {
		n.LeadUpdated(
			context.Background(),
			lead.Lead{ID: "lead-1", Status: sequence[i-1]},
			wonLead(sequence[i]),
		)
	}

	assert.Len(t, sender.sent, 1)
}

func TestStatusChangeNotifier_TracesDelivery(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	sender := &fakeSender{sendFn: func(context.Context, LeadWonMessage) error {
		return errors.New("mailbox unavailable")
	}}
	n := NewStatusChangeNotifier(sender, time.Second, discardLogger(), nil)

	n.LeadUpdated(context.Background(), wonLead(lead.StatusProposal).Lead, wonLead(lead.StatusWon))

	ended := sr.Ended()
	require.Len(t, ended, 1)
	span := ended[0]
	assert.Equal(t, "notify.lead_won", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)

	attrs := map[string]string{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, "lead-1", attrs[string(core.AttrLeadID)])
	assert.Equal(t, lead.StatusProposal, attrs[string(core.AttrPreviousStatus)])
	assert.Equal(t, "custom", attrs[string(core.AttrNotifyProvider)])
}

func TestProviderName(t *testing.T) {
	assert.Equal(t, "log", ProviderName(NewLogSender(nil)))
	assert.Equal(t, "smtp", ProviderName(&SMTPSender{}))
	assert.Equal(t, "sendgrid", ProviderName(&SendGridSender{}))
	assert.Equal(t, "custom", ProviderName(&fakeSender{}))
}
