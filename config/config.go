// Package config loads the listener configuration from files, environment and flags
//
//	logger:
//	  level: debug
//	event:
//	  subscribe:
//	    should_throw_errors: true
//	dom:
//	  bind:
//	    capture: true
//	metrics:
//	  enabled: true
//	telemetry:
//	  exporter: stdout
package config

import (
	"sort"

	"github.com/KOMKZ/go-yogan-listener/dom"
	"github.com/KOMKZ/go-yogan-listener/event"
	"github.com/KOMKZ/go-yogan-listener/logger"
	"github.com/KOMKZ/go-yogan-listener/telemetry"
)

// Config is the full configuration
type Config struct {
	Logger    logger.ManagerConfig `mapstructure:"logger"`
	Event     event.Config         `mapstructure:"event"`
	DOM       dom.Config           `mapstructure:"dom"`
	Metrics   event.MetricsConfig  `mapstructure:"metrics"`
	Telemetry telemetry.Config     `mapstructure:"telemetry"`
}

// DefaultConfig returns the configuration used when no source sets anything
func DefaultConfig() Config {
	return Config{
		Logger:    logger.DefaultManagerConfig(),
		Event:     event.DefaultConfig(),
		DOM:       dom.DefaultConfig(),
		Metrics:   event.MetricsConfig{Enabled: false},
		Telemetry: telemetry.DefaultConfig(),
	}
}

// Validate checks every section
func (c Config) Validate() error {
	return ValidateAll(
		Section{Name: "logger", Value: c.Logger},
		Section{Name: "telemetry", Value: c.Telemetry},
	)
}

// DefaultValues returns DefaultConfig as flat dotted keys
func DefaultValues() map[string]any {
	d := DefaultConfig()
	l, e, m := d.Logger, d.Event, d.DOM

	return map[string]any{
		"logger.base_log_dir":        l.BaseLogDir,
		"logger.level":               l.Level,
		"logger.app_name":            l.AppName,
		"logger.encoding":            l.Encoding,
		"logger.enable_console":      l.EnableConsole,
		"logger.enable_file":         l.EnableFile,
		"logger.max_size":            l.MaxSize,
		"logger.max_backups":         l.MaxBackups,
		"logger.max_age":             l.MaxAge,
		"logger.compress":            l.Compress,
		"logger.enable_caller":       l.EnableCaller,
		"logger.enable_stacktrace":   l.EnableStacktrace,
		"logger.stacktrace_level":    l.StacktraceLevel,
		"logger.stacktrace_depth":    l.StacktraceDepth,
		"logger.enable_trace_id":     l.EnableTraceID,
		"logger.trace_id_key":        l.TraceIDKey,
		"logger.trace_id_field_name": l.TraceIDFieldName,

		"event.subscribe.should_throw_errors":                       e.Subscribe.ShouldThrowErrors,
		"event.subscribe.allow_multiple_subscribe_same_function":    e.Subscribe.AllowMultipleSubscribeSameFunction,
		"event.unsubscribe.should_throw_errors":                     e.Unsubscribe.ShouldThrowErrors,
		"event.unsubscribe.remove_only_first_occurrence":            e.Unsubscribe.RemoveOnlyFirstOccurrence,
		"event.subscribe_with_key.should_throw_errors":              e.SubscribeWithKey.ShouldThrowErrors,
		"event.subscribe_with_key.allow_multiple_listeners_per_key": e.SubscribeWithKey.AllowMultipleListenersPerKey,
		"event.subscribe_with_key.allow_multiple_subscribe_same_function": e.SubscribeWithKey.AllowMultipleSubscribeSameFunction,
		"event.unsubscribe_with_key.should_throw_errors":                  e.UnsubscribeWithKey.ShouldThrowErrors,
		"event.unsubscribe_with_key.remove_only_first_occurrence":         e.UnsubscribeWithKey.RemoveOnlyFirstOccurrence,
		"event.unsubscribe_with_key.remove_only_first_keyed_listener":     e.UnsubscribeWithKey.RemoveOnlyFirstKeyedListener,
		"event.dispatch.store_data":                                       e.Dispatch.StoreData,
		"event.wait.reset_first_dispatch_before":                          e.Wait.ResetFirstDispatchBefore,
		"event.wait.reset_first_dispatch_after":                           e.Wait.ResetFirstDispatchAfter,

		"dom.bind.capture":               m.Bind.Capture,
		"dom.bind.once":                  m.Bind.Once,
		"dom.bind.passive":               m.Bind.Passive,
		"dom.bind.should_throw_errors":   m.Bind.ShouldThrowErrors,
		"dom.unbind.should_throw_errors": m.Unbind.ShouldThrowErrors,

		"metrics.enabled": d.Metrics.Enabled,

		"telemetry.service_name":    d.Telemetry.ServiceName,
		"telemetry.service_version": d.Telemetry.ServiceVersion,
		"telemetry.exporter":        d.Telemetry.Exporter,
		"telemetry.export_interval": d.Telemetry.ExportInterval,
		"telemetry.namespace":       d.Telemetry.Namespace,
		"telemetry.enable_tracing":  d.Telemetry.EnableTracing,
	}
}

// Keys returns every known key, sorted
func Keys() []string {
	defaults := DefaultValues()
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
