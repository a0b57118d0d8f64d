package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mymcp/console/internal/config"
)

const (
	serviceName    = "mymcp-console"
	serviceVersion = "1.0.0"
)

// Exporter exports pipeline metrics to an OTEL Collector.
type Exporter struct {
	provider        *sdkmetric.MeterProvider
	sessionsStarted metric.Int64Counter
	sessionsStopped metric.Int64Counter
	actionsRecorded metric.Int64Counter
	toolsGenerated  metric.Int64Counter
	toolsSaved      metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg config.OTEL) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	sessionsStarted, err := meter.Int64Counter(
		"mymcp_recorder_sessions_started_total",
		metric.WithDescription("Recording sessions started from the console"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions started counter: %w", err)
	}

	sessionsStopped, err := meter.Int64Counter(
		"mymcp_recorder_sessions_stopped_total",
		metric.WithDescription("Recording sessions stopped from the console"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions stopped counter: %w", err)
	}

	actionsRecorded, err := meter.Int64Counter(
		"mymcp_recorder_actions_total",
		metric.WithDescription("Actions captured in stopped sessions"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating actions counter: %w", err)
	}

	toolsGenerated, err := meter.Int64Counter(
		"mymcp_recorder_tools_generated_total",
		metric.WithDescription("Tools generated from recording sessions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tools generated counter: %w", err)
	}

	toolsSaved, err := meter.Int64Counter(
		"mymcp_recorder_tools_saved_total",
		metric.WithDescription("Tool save attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tools saved counter: %w", err)
	}

	return &Exporter{
		provider:        provider,
		sessionsStarted: sessionsStarted,
		sessionsStopped: sessionsStopped,
		actionsRecorded: actionsRecorded,
		toolsGenerated:  toolsGenerated,
		toolsSaved:      toolsSaved,
	}, nil
}

func (e *Exporter) SessionStarted(ctx context.Context) {
	e.sessionsStarted.Add(ctx, 1)
}

func (e *Exporter) SessionStopped(ctx context.Context, actions int) {
	e.sessionsStopped.Add(ctx, 1)
	e.actionsRecorded.Add(ctx, int64(actions))
}

func (e *Exporter) ToolGenerated(ctx context.Context) {
	e.toolsGenerated.Add(ctx, 1)
}

func (e *Exporter) ToolSaved(ctx context.Context, outcome string) {
	e.toolsSaved.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Shutdown flushes pending metrics and stops the provider.
func (e *Exporter) Shutdown(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
