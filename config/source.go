package config

// Source is one origin of configuration values
// Load returns flat dotted keys, e.g. "event.subscribe.should_throw_errors"
type Source interface {
	Name() string
	// Priority orders sources; higher values override lower ones
	// Defaults are not a source: keys no source provides are filled by the loader
	Priority() int
	Load() (map[string]any, error)
}

const (
	PriorityFile = 10
	PriorityEnv  = 50
	PriorityFlag = 100
)
