// Package telemetry provides the OpenTelemetry wiring for the analysis
// pipeline: a tracer provider for per-stage spans and metric instruments
// for pipeline throughput.
package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// serviceName identifies this service in exported telemetry.
const serviceName = "stride"

// NewTracerProvider creates a TracerProvider that exports completed spans
// through the given exporter.
//
// The provider uses a SimpleSpanProcessor for immediate export without
// batching, so spans for a pipeline run are visible as soon as the run
// completes.
func NewTracerProvider(exporter sdktrace.SpanExporter, logger *slog.Logger) *sdktrace.TracerProvider {
	processor := sdktrace.NewSimpleSpanProcessor(exporter)

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		logger.Warn("failed to create resource, using default", "error", err)
		res = resource.Default()
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(res),
	)
}
