// AngelaMos | 2026
// telemetry.go

package core

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/pulsecrm/pulse-crm/internal/config"
)

const (
	tracerName        = "github.com/pulsecrm/pulse-crm"
	defaultSampleRate = 0.1
	exportTimeout     = 5 * time.Second
)

// Span attribute keys shared by the CRM packages.
const (
	AttrLeadID         = attribute.Key("crm.lead.id")
	AttrLeadStatus     = attribute.Key("crm.lead.status")
	AttrPreviousStatus = attribute.Key("crm.lead.previous_status")
	AttrActivityType   = attribute.Key("crm.activity.type")
	AttrNotifyProvider = attribute.Key("crm.notify.provider")
	AttrRecipient      = attribute.Key("crm.notify.recipient")
)

// Telemetry owns the process tracer provider. Spans are started through
// StartSpan so every package shares one instrumentation scope.
type Telemetry struct {
	provider *sdktrace.TracerProvider
}

func NewTelemetry(ctx context.Context, cfg *config.Config) (*Telemetry, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.Otel.ServiceName),
			semconv.ServiceVersion(cfg.App.Version),
			semconv.DeploymentEnvironment(cfg.App.Environment),
			AttrNotifyProvider.String(cfg.Notify.Provider),
			attribute.Bool("crm.realtime.redis_fanout", cfg.Realtime.RedisFanout),
		),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(
			sdktrace.TraceIDRatioBased(sampleRate(cfg.Otel.SampleRate)),
		)),
	}

	if cfg.Otel.Enabled && cfg.Otel.Endpoint != "" {
		exporter, expErr := newExporter(ctx, cfg.Otel)
		if expErr != nil {
			return nil, expErr
		}
		opts = append(opts, sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(exportTimeout),
		))
	}

	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Telemetry{provider: tp}, nil
}

func newExporter(
	ctx context.Context,
	cfg config.OtelConfig,
) (*otlptrace.Exporter, error) {
	creds := credentials.NewClientTLSFromCert(nil, "")
	if cfg.Insecure {
		creds = insecure.NewCredentials()
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithTimeout(exportTimeout),
		otlptracegrpc.WithTLSCredentials(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	return exporter, nil
}

func sampleRate(rate float64) float64 {
	if rate <= 0 || rate > 1 {
		return defaultSampleRate
	}
	return rate
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := t.provider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}

	return nil
}

func StartSpan(
	ctx context.Context,
	name string,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

func TraceIDFromContext(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

func AddSpanEvent(
	ctx context.Context,
	name string,
	attrs ...attribute.KeyValue,
) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// SetSpanError records err and marks the current span failed.
func SetSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
