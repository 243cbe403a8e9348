package telemetry

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Config configures the OpenTelemetry providers
type Config struct {
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Exporter       string        `mapstructure:"exporter"`        // stdout or none
	ExportInterval time.Duration `mapstructure:"export_interval"` // periodic metric export, stdout only
	Namespace      string        `mapstructure:"namespace"`       // meter name prefix
	EnableTracing  bool          `mapstructure:"enable_tracing"`  // export spans with the metrics exporter
}

// DefaultConfig keeps everything in process
func DefaultConfig() Config {
	return Config{
		ServiceName:    "go-yogan-listener",
		Exporter:       ExporterNone,
		ExportInterval: 30 * time.Second,
		Namespace:      "yogan",
	}
}

// Validate implements the config validator contract
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ServiceName, validation.Required),
		validation.Field(&c.Exporter, validation.Required, validation.In(ExporterStdout, ExporterNone)),
		validation.Field(&c.ExportInterval, validation.Min(time.Millisecond)),
	)
}
