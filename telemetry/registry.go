package telemetry

import (
	"fmt"
	"sync"

	"github.com/KOMKZ/go-yogan-listener/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider is implemented by components that own instruments
type MetricsProvider interface {
	// MetricsName is a short lowercase group name, used for the meter name
	MetricsName() string
	IsMetricsEnabled() bool
	RegisterMetrics(meter metric.Meter) error
}

// MetricsRegistry hands each provider its own meter and registers it once
type MetricsRegistry struct {
	meterProvider metric.MeterProvider
	namespace     string
	logger        logger.Logger

	mu        sync.RWMutex
	meters    map[string]metric.Meter
	providers []MetricsProvider
}

type RegistryOption func(*MetricsRegistry)

// WithNamespace sets the meter name prefix
func WithNamespace(namespace string) RegistryOption {
	return func(r *MetricsRegistry) {
		r.namespace = namespace
	}
}

func WithLogger(l logger.Logger) RegistryOption {
	return func(r *MetricsRegistry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewMetricsRegistry creates a registry on mp, or on the global meter provider when mp is nil
func NewMetricsRegistry(mp metric.MeterProvider, opts ...RegistryOption) *MetricsRegistry {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	r := &MetricsRegistry{
		meterProvider: mp,
		namespace:     "yogan",
		logger:        logger.NullLogger,
		meters:        make(map[string]metric.Meter),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register creates the provider's instruments; disabled providers are skipped
func (r *MetricsRegistry) Register(provider MetricsProvider) error {
	if provider == nil {
		return fmt.Errorf("metrics provider is nil")
	}
	name := provider.MetricsName()
	if name == "" {
		return fmt.Errorf("metrics provider name is empty")
	}
	if !provider.IsMetricsEnabled() {
		r.logger.Debug("metrics disabled for provider", "provider", name)
		return nil
	}

	r.mu.Lock()
	for _, p := range r.providers {
		if p.MetricsName() == name {
			r.mu.Unlock()
			return fmt.Errorf("metrics provider %q already registered", name)
		}
	}
	meter := r.meterLocked(name)
	if err := provider.RegisterMetrics(meter); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("register metrics for %q: %w", name, err)
	}
	r.providers = append(r.providers, provider)
	r.mu.Unlock()

	r.logger.Info("metrics provider registered", "provider", name)
	return nil
}

// Meter returns the meter of name, {namespace}_{name}
func (r *MetricsRegistry) Meter(name string) metric.Meter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meterLocked(name)
}

func (r *MetricsRegistry) meterLocked(name string) metric.Meter {
	if meter, ok := r.meters[name]; ok {
		return meter
	}
	meterName := name
	if r.namespace != "" {
		meterName = r.namespace + "_" + name
	}
	meter := r.meterProvider.Meter(meterName)
	r.meters[name] = meter
	return meter
}

// ProviderCount returns the number of registered providers
func (r *MetricsRegistry) ProviderCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}
