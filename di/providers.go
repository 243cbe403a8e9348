// Package di wires the listener components into a samber/do injector
//
// Layer 0 is the config Loader, layer 1 the logger Manager, layer 2 the
// telemetry Provider and metrics registry, layer 3 the listener metrics.
// Every provider is lazy; Shutdown of the injector flushes telemetry and
// closes the loggers.
package di

import (
	"fmt"
	"io"
	"os"

	"github.com/KOMKZ/go-yogan-listener/config"
	"github.com/KOMKZ/go-yogan-listener/event"
	"github.com/KOMKZ/go-yogan-listener/logger"
	"github.com/KOMKZ/go-yogan-listener/telemetry"
	"github.com/samber/do/v2"
	"go.uber.org/zap/zapcore"
)

// Options configures RegisterCoreProviders
type Options struct {
	ConfigFile string
	EnvPrefix  string
	Flags      any
	Output     io.Writer // console logs and stdout exporters, os.Stdout when nil
	Module     string    // module of the injected *logger.CtxZapLogger, "listener" when empty
}

// RegisterCoreProviders registers every provider by dependency layer
func RegisterCoreProviders(injector do.Injector, opts Options) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Module == "" {
		opts.Module = "listener"
	}

	var files []string
	if opts.ConfigFile != "" {
		files = append(files, opts.ConfigFile)
	}
	do.Provide(injector, config.ProvideLoader(config.ProvideLoaderOptions{
		ConfigFiles: files,
		EnvPrefix:   opts.EnvPrefix,
		Flags:       opts.Flags,
	}))
	do.Provide(injector, config.ProvideConfig)

	do.Provide(injector, ProvideLoggerManager(opts.Output))
	do.Provide(injector, ProvideCtxLogger(opts.Module))

	do.Provide(injector, ProvideTelemetry(opts.Output))
	do.Provide(injector, ProvideMetricsRegistry)

	do.Provide(injector, ProvideEventMetrics)
}

// ProvideLoggerManager builds the logger Manager from the logger section, writing console output to out
func ProvideLoggerManager(out io.Writer) func(do.Injector) (*logger.Manager, error) {
	return func(i do.Injector) (*logger.Manager, error) {
		cfg, err := do.Invoke[*config.Config](i)
		if err != nil {
			return nil, err
		}
		m := logger.NewManager(cfg.Logger)
		m.SetConsoleOutput(zapcore.AddSync(out))
		return m, nil
	}
}

// ProvideCtxLogger returns the logger of module
func ProvideCtxLogger(module string) func(do.Injector) (*logger.CtxZapLogger, error) {
	return func(i do.Injector) (*logger.CtxZapLogger, error) {
		m, err := do.Invoke[*logger.Manager](i)
		if err != nil {
			return nil, err
		}
		return m.GetLogger(module), nil
	}
}

// ProvideTelemetry builds the meter and tracer providers from the telemetry section
func ProvideTelemetry(out io.Writer) func(do.Injector) (*telemetry.Provider, error) {
	return func(i do.Injector) (*telemetry.Provider, error) {
		cfg, err := do.Invoke[*config.Config](i)
		if err != nil {
			return nil, err
		}
		return telemetry.NewProvider(cfg.Telemetry, out)
	}
}

// ProvideMetricsRegistry creates the registry on the telemetry meter provider
func ProvideMetricsRegistry(i do.Injector) (*telemetry.MetricsRegistry, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}
	tel, err := do.Invoke[*telemetry.Provider](i)
	if err != nil {
		return nil, err
	}
	log, err := do.Invoke[*logger.CtxZapLogger](i)
	if err != nil {
		return nil, err
	}
	return telemetry.NewMetricsRegistry(tel.MeterProvider(),
		telemetry.WithNamespace(cfg.Telemetry.Namespace),
		telemetry.WithLogger(logger.NewZapLogger(log)),
	), nil
}

// ProvideEventMetrics creates the listener metrics and registers them when metrics.enabled is set
func ProvideEventMetrics(i do.Injector) (*event.Metrics, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}
	registry, err := do.Invoke[*telemetry.MetricsRegistry](i)
	if err != nil {
		return nil, err
	}
	m := event.NewMetrics(cfg.Metrics)
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("register listener metrics: %w", err)
	}
	return m, nil
}
