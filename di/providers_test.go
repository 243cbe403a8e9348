package di

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/KOMKZ/go-yogan-listener/config"
	"github.com/KOMKZ/go-yogan-listener/event"
	"github.com/KOMKZ/go-yogan-listener/logger"
	"github.com/KOMKZ/go-yogan-listener/telemetry"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInjector(t *testing.T, opts Options) (*do.RootScope, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	if opts.Output == nil {
		opts.Output = &buf
	}
	injector := do.New()
	t.Cleanup(func() { injector.Shutdown() })
	RegisterCoreProviders(injector, opts)
	return injector, &buf
}

func TestRegisterCoreProviders_Defaults(t *testing.T) {
	injector, _ := newInjector(t, Options{})

	cfg, err := do.Invoke[*config.Config](injector)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), *cfg)

	log, err := do.Invoke[*logger.CtxZapLogger](injector)
	require.NoError(t, err)
	assert.Equal(t, "listener", log.Module())

	tel, err := do.Invoke[*telemetry.Provider](injector)
	require.NoError(t, err)
	assert.NotNil(t, tel.Reader(), "the none exporter keeps a manual reader")

	metrics, err := do.Invoke[*event.Metrics](injector)
	require.NoError(t, err)
	assert.False(t, metrics.IsRegistered(), "metrics are disabled by default")
}

func TestRegisterCoreProviders_Singletons(t *testing.T) {
	injector, _ := newInjector(t, Options{Module: "oslisten"})

	first := do.MustInvoke[*logger.Manager](injector)
	second := do.MustInvoke[*logger.Manager](injector)
	assert.Same(t, first, second)
	assert.Equal(t, "oslisten", do.MustInvoke[*logger.CtxZapLogger](injector).Module())
}

func TestRegisterCoreProviders_ConfigFileAndMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listener.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metrics:\n  enabled: true\nlogger:\n  level: debug\n"), 0o644))

	injector, buf := newInjector(t, Options{ConfigFile: path})

	metrics, err := do.Invoke[*event.Metrics](injector)
	require.NoError(t, err)
	assert.True(t, metrics.IsRegistered())
	assert.Equal(t, 1, do.MustInvoke[*telemetry.MetricsRegistry](injector).ProviderCount())
	assert.Contains(t, buf.String(), "metrics provider registered")
	assert.Equal(t, []string{path}, do.MustInvoke[*config.Loader](injector).LoadedFiles())
}

func TestRegisterCoreProviders_FlagsAndEnv(t *testing.T) {
	t.Setenv("DI_TEST_TELEMETRY_NAMESPACE", "demo")
	flags := &struct {
		Level string `config:"logger.level"`
	}{Level: "warn"}

	injector, _ := newInjector(t, Options{EnvPrefix: "DI_TEST", Flags: flags})

	cfg := do.MustInvoke[*config.Config](injector)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "demo", cfg.Telemetry.Namespace)
	assert.Equal(t, "warn", do.MustInvoke[*logger.Manager](injector).Config().Level)
}

func TestRegisterCoreProviders_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listener.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telemetry:\n  exporter: otlp\n"), 0o644))

	injector, _ := newInjector(t, Options{ConfigFile: path})

	_, err := do.Invoke[*config.Config](injector)
	assert.Error(t, err)

	_, err = do.Invoke[*event.Metrics](injector)
	assert.Error(t, err, "dependents fail with their dependency")
}

func TestShutdown_FlushesStdoutExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listener.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metrics:\n  enabled: true\ntelemetry:\n  exporter: stdout\n"), 0o644))

	var buf bytes.Buffer
	injector := do.New()
	RegisterCoreProviders(injector, Options{ConfigFile: path, Output: &buf})

	metrics := do.MustInvoke[*event.Metrics](injector)
	ch := event.NewChannel("ping", event.WithMetrics(metrics))
	ch.Dispatch(nil, 1)

	injector.Shutdown()
	assert.Contains(t, buf.String(), "listener_dispatch_total")
}
