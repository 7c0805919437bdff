package monitoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

type Monitoring interface {
	Start(ctx context.Context)
	Stop(ctx context.Context)
}

type openTelemetry struct {
	serviceName string
	environment string
	projectID   string
	provider    *sdktrace.TracerProvider
}

func NewOpenTelemetry(serviceName, environment, projectID string) Monitoring {
	return &openTelemetry{
		serviceName: serviceName,
		environment: environment,
		projectID:   projectID,
	}
}

func (m *openTelemetry) Start(ctx context.Context) {
	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		otel.Handle(err)
		return
	}

	res, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(m.serviceName),
			semconv.DeploymentEnvironment(m.environment),
		),
	)

	m.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(m.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

func (m *openTelemetry) Stop(ctx context.Context) {
	if m.provider == nil {
		return
	}

	if err := m.provider.Shutdown(ctx); err != nil {
		otel.Handle(err)
	}
}
