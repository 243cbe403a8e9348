package event

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsConfig holds configuration for channel metrics
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Metrics records channel activity through an OpenTelemetry meter
// A nil *Metrics, or one that is not registered yet, records nothing
type Metrics struct {
	config     MetricsConfig
	mu         sync.Mutex
	registered atomic.Bool

	dispatches    metric.Int64Counter     // dispatch calls
	invocations   metric.Int64Counter     // listener invocations by result
	duration      metric.Float64Histogram // dispatch duration
	subscriptions metric.Int64Counter     // registry operations by result
}

// NewMetrics creates a metrics recorder
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{config: cfg}
}

// MetricsName returns the metrics group name
func (m *Metrics) MetricsName() string {
	return "listener"
}

// IsMetricsEnabled returns whether metrics collection is enabled
func (m *Metrics) IsMetricsEnabled() bool {
	return m.config.Enabled
}

// RegisterMetrics creates the instruments on meter; calling it again is a no-op
func (m *Metrics) RegisterMetrics(meter metric.Meter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered.Load() {
		return nil
	}

	var err error
	m.dispatches, err = meter.Int64Counter(
		"listener_dispatch_total",
		metric.WithDescription("Total number of dispatch calls"),
		metric.WithUnit("{dispatch}"),
	)
	if err != nil {
		return err
	}

	m.invocations, err = meter.Int64Counter(
		"listener_invocations_total",
		metric.WithDescription("Total number of listener invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return err
	}

	m.duration, err = meter.Float64Histogram(
		"listener_dispatch_duration_seconds",
		metric.WithDescription("Time spent running all listeners of a dispatch"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	m.subscriptions, err = meter.Int64Counter(
		"listener_subscription_total",
		metric.WithDescription("Subscribe and unsubscribe operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return err
	}

	m.registered.Store(true)
	return nil
}

// IsRegistered returns whether the instruments exist
func (m *Metrics) IsRegistered() bool {
	return m != nil && m.registered.Load()
}

// RecordDispatch records one dispatch reaching listeners
func (m *Metrics) RecordDispatch(ctx context.Context, event string, listeners int, d time.Duration) {
	if !m.IsRegistered() {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("event", event),
		attribute.Int("listeners", listeners),
	)
	m.dispatches.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("event", event)))
}

// RecordInvocation records one listener call
func (m *Metrics) RecordInvocation(ctx context.Context, event, result string) {
	if !m.IsRegistered() {
		return
	}
	m.invocations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("result", result),
	))
}

// RecordSubscription records a registry operation
func (m *Metrics) RecordSubscription(ctx context.Context, event, operation, result string) {
	if !m.IsRegistered() {
		return
	}
	m.subscriptions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("operation", operation),
		attribute.String("result", result),
	))
}
