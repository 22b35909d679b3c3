package langfuse

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentName = "github.com/levelvc/level-agent-tools"

// Tracer is the tracer used to create spans once Start has run. It defaults
// to a no-op tracer so instrumented code works without telemetry enabled.
var Tracer = noop.NewTracerProvider().Tracer(instrumentName)

// Start wires the global OTel tracer provider to export spans to Langfuse
// over OTLP/HTTP. A nil config falls back to the LANGFUSE_* environment
// variables. The returned clean function flushes and shuts the provider
// down.
func Start(ctx context.Context, config *Config, opts ...sdktrace.TracerProviderOption) (clean func() error, err error) {
	if config == nil {
		config = NewConfigFromEnv()
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(config.host()+"/api/public/otel/v1/traces"),
		otlptracehttp.WithHeaders(map[string]string{
			"Authorization": "Basic " + encodeAuth(config.PublicKey, config.SecretKey),
		}),
	)
	if err != nil {
		return nil, err
	}

	allOpts := append([]sdktrace.TracerProviderOption{sdktrace.WithBatcher(exporter)}, opts...)
	provider := sdktrace.NewTracerProvider(allOpts...)
	otel.SetTracerProvider(provider)
	Tracer = provider.Tracer(instrumentName)

	return func() error {
		defer func() { Tracer = noop.NewTracerProvider().Tracer(instrumentName) }()
		return provider.Shutdown(context.Background())
	}, nil
}
