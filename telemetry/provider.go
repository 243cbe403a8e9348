// Package telemetry builds the OpenTelemetry meter and tracer providers
// and registers metrics providers such as event.Metrics on them
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Provider owns a meter provider and a tracer provider sharing one resource
//
// With the stdout exporter metrics are written periodically and on Shutdown;
// spans are written synchronously when tracing is enabled. With none, spans
// are still created (so logs carry trace ids) and metrics stay readable
// through Reader.
type Provider struct {
	config Config
	meters *sdkmetric.MeterProvider
	tracer *sdktrace.TracerProvider
	reader *sdkmetric.ManualReader
}

// NewProvider builds the providers; w receives exported data (os.Stdout when nil)
func NewProvider(cfg Config, w io.Writer) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stdout
	}

	res := resource.NewSchemaless(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)

	p := &Provider{config: cfg}

	meterOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	}

	switch cfg.Exporter {
	case ExporterStdout:
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("create stdout metrics exporter: %w", err)
		}
		meterOpts = append(meterOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.ExportInterval)),
		))

		if cfg.EnableTracing {
			spans, err := stdouttrace.New(stdouttrace.WithWriter(w))
			if err != nil {
				return nil, fmt.Errorf("create stdout trace exporter: %w", err)
			}
			traceOpts = append(traceOpts, sdktrace.WithSyncer(spans))
		}
	default:
		p.reader = sdkmetric.NewManualReader()
		meterOpts = append(meterOpts, sdkmetric.WithReader(p.reader))
	}

	p.meters = sdkmetric.NewMeterProvider(meterOpts...)
	p.tracer = sdktrace.NewTracerProvider(traceOpts...)
	return p, nil
}

// MeterProvider returns the meter provider
func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.meters
}

// Tracer returns a tracer named name
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.tracer.Tracer(name)
}

// Reader returns the manual reader of the none exporter, nil otherwise
func (p *Provider) Reader() *sdkmetric.ManualReader {
	return p.reader
}

// Config returns the configuration the providers were built with
func (p *Provider) Config() Config {
	return p.config
}

// Shutdown flushes and stops both providers
func (p *Provider) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.tracer.Shutdown(ctx),
		p.meters.Shutdown(ctx),
	)
}
