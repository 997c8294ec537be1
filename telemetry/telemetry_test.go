package telemetry

import (
	"context"
	"testing"

	"github.com/tdewolff/test"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), "", true)
	test.Error(t, err)
	test.Error(t, shutdown(context.Background()))

	shutdown, err = Setup(context.Background(), "http://localhost:4318", false)
	test.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	test.Error(t, shutdown(ctx))
}

func TestSetupEnabled(t *testing.T) {
	// non-routable, nothing is exported
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	shutdown, err := Setup(context.Background(), "http://192.0.2.1:4318", true)
	test.Error(t, err)
	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	test.That(t, ok)
	test.Error(t, shutdown(context.Background()))
}
