// Package telemetry exports the spans of publish and delete runs over OTLP/HTTP. The publisher
// traces branch creation and every icon upload or deletion, and the GitHub client traces each
// REST request below them.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ServiceName identifies shoplcon in the trace backend.
const ServiceName = "shoplcon"

func nop(context.Context) error { return nil }

// Setup registers a global tracer provider that sends spans to the collector at endpoint, e.g.
// SHOPLCON_OTEL_ENDPOINT. Without an endpoint, or when disabled, spans stay on the no-op provider.
// Call the returned function before the command exits so that the spans of the run are flushed.
func Setup(ctx context.Context, endpoint string, enabled bool) (shutdown func(context.Context) error, err error) {
	if !enabled || endpoint == "" {
		return nop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nop, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(ServiceName)))
	if err != nil {
		return nop, err
	}

	// a run is short and uploads a handful of icons, keep every trace
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}
