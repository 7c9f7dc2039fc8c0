// Package telemetry provides OpenTelemetry integration for skillshub.
//
// Telemetry is disabled by default (zero runtime overhead when off).
//
// # Configuration
//
//	SKILLSHUB_OTEL_ENABLED=true       enable telemetry (default: off)
//	SKILLSHUB_OTEL_STDOUT=true        write spans/metrics to stdout (dev mode)
//	OTEL_EXPORTER_OTLP_ENDPOINT=...   OTLP/HTTP endpoint (e.g. http://localhost:4318)
//	OTEL_SERVICE_NAME=skillshub       override service name
package telemetry

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationScope = "github.com/EYH0602/skillshub"

var shutdownFns []func(context.Context) error

// Enabled reports whether telemetry is active (SKILLSHUB_OTEL_ENABLED=true).
func Enabled() bool {
	return os.Getenv("SKILLSHUB_OTEL_ENABLED") == "true"
}

// Init configures OTel providers. When SKILLSHUB_OTEL_ENABLED is not "true"
// this installs no-op providers and returns immediately (zero overhead path).
func Init(ctx context.Context, serviceName, version string) error {
	if !Enabled() {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
		resource.WithHost(),
		resource.WithProcess(),
	)
	if err != nil {
		return fmt.Errorf("telemetry: resource: %w", err)
	}

	tp, err := buildTraceProvider(res)
	if err != nil {
		return fmt.Errorf("telemetry: trace provider: %w", err)
	}
	otel.SetTracerProvider(tp)
	shutdownFns = append(shutdownFns, tp.Shutdown)

	mp, err := buildMetricProvider(ctx, res)
	if err != nil {
		return fmt.Errorf("telemetry: metric provider: %w", err)
	}
	otel.SetMeterProvider(mp)
	shutdownFns = append(shutdownFns, mp.Shutdown)

	return nil
}

func buildTraceProvider(res *resource.Resource) (*sdktrace.TracerProvider, error) {
	// Spans go to stdout only. Skill operations are short-lived CLI
	// invocations; wire export of traces is not worth a collector dependency.
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
	), nil
}

func buildMetricProvider(ctx context.Context, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if os.Getenv("SKILLSHUB_OTEL_STDOUT") == "true" {
		exp, err := stdoutmetric.New()
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(15*time.Second)),
		))
	}

	// OTLP metric export over HTTP. Metrics-only endpoints can be set via
	// OTEL_EXPORTER_OTLP_METRICS_ENDPOINT.
	if endpoint := firstNonEmpty(
		os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"),
		os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	); endpoint != "" {
		exp, err := buildOTLPMetricExporter(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("otlp metric exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(30*time.Second)),
		))
	}

	return sdkmetric.NewMeterProvider(opts...), nil
}

// Tracer returns a tracer with the given instrumentation name (or the global scope).
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = instrumentationScope
	}
	return otel.Tracer(name)
}

// Meter returns a meter with the given instrumentation name (or the global scope).
func Meter(name string) metric.Meter {
	if name == "" {
		name = instrumentationScope
	}
	return otel.Meter(name)
}

// Shutdown flushes all spans/metrics and shuts down OTel providers.
// Should be deferred in PersistentPostRun with a short-lived context.
func Shutdown(ctx context.Context) {
	for _, fn := range shutdownFns {
		_ = fn(ctx)
	}
	shutdownFns = nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
