package dom

import "github.com/KOMKZ/go-yogan-listener/event"

// BindOptions options of BindToDOMEvent
type BindOptions struct {
	ListenerOptions   `mapstructure:",squash"`
	ShouldThrowErrors bool `mapstructure:"should_throw_errors"`
}

// UnbindOptions options of UnbindDOMEvent
// The native listener options of the binding are reused for the removal
type UnbindOptions struct {
	ShouldThrowErrors bool `mapstructure:"should_throw_errors"`
}

// Config holds the bind/unbind defaults of a channel
type Config struct {
	Bind   BindOptions   `mapstructure:"bind"`
	Unbind UnbindOptions `mapstructure:"unbind"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{}
}

type (
	BindOption   func(*BindOptions)
	UnbindOption func(*UnbindOptions)
)

// BindShouldThrowErrors returns failures as errors instead of logging them
func BindShouldThrowErrors(v bool) BindOption {
	return func(o *BindOptions) { o.ShouldThrowErrors = v }
}

// Capture registers the native handler for the capture phase
func Capture(v bool) BindOption {
	return func(o *BindOptions) { o.Capture = v }
}

// Once lets the target drop the native handler after its first call
// The binding itself stays recorded until UnbindDOMEvent
func Once(v bool) BindOption {
	return func(o *BindOptions) { o.Once = v }
}

// Passive marks the native handler as never cancelling the event
func Passive(v bool) BindOption {
	return func(o *BindOptions) { o.Passive = v }
}

// UnbindShouldThrowErrors returns failures as errors instead of logging them
func UnbindShouldThrowErrors(v bool) UnbindOption {
	return func(o *UnbindOptions) { o.ShouldThrowErrors = v }
}

type settings struct {
	event    []event.ChannelOption
	defaults Config
}

// Option configures a Channel at construction
type Option func(*settings)

// WithEventOptions passes options to the underlying event channel
func WithEventOptions(opts ...event.ChannelOption) Option {
	return func(s *settings) {
		s.event = append(s.event, opts...)
	}
}

// WithDefaults replaces the bind/unbind defaults
func WithDefaults(cfg Config) Option {
	return func(s *settings) {
		s.defaults = cfg
	}
}
