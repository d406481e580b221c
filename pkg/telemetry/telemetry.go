// Package telemetry configures OpenTelemetry tracing. Without an OTLP endpoint
// the global tracer stays a no-op and spans cost nothing.
package telemetry

import (
	"context"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const ServiceName = "lesson-generator"

type Config struct {
	Endpoint    string
	Headers     map[string]string
	Insecure    bool
	SampleRatio float64
	Environment string
}

// Init installs a global tracer provider and returns its shutdown function.
// Exporter failures are logged and never stop the service.
func Init(ctx context.Context, cfg Config) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if cfg.Endpoint == "" {
		zerolog.Ctx(ctx).Info().Msg("tracing disabled, no otlp endpoint configured")
		return noop
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("otlp exporter init failed, tracing disabled")
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", ServiceName),
		attribute.String("deployment.environment", cfg.Environment),
	))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("otel resource init failed")
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	zerolog.Ctx(ctx).Info().Str("endpoint", cfg.Endpoint).Msg("tracing initialized")

	return tp.Shutdown
}

func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
