package config

import (
	"os"
	"strings"
)

// EnvSource reads environment variables named PREFIX_ + the upper-snake form of each key
//
//	event.subscribe.should_throw_errors -> LISTENER_EVENT_SUBSCRIBE_SHOULD_THROW_ERRORS
//
// Keys contain underscores, so variables cannot be mapped back to keys; only the given keys are looked up.
type EnvSource struct {
	prefix   string
	priority int
	keys     []string
}

func NewEnvSource(prefix string, priority int, keys []string) *EnvSource {
	return &EnvSource{prefix: prefix, priority: priority, keys: keys}
}

func (s *EnvSource) Name() string {
	return "env:" + s.prefix
}

func (s *EnvSource) Priority() int {
	return s.priority
}

func (s *EnvSource) Load() (map[string]any, error) {
	result := make(map[string]any)
	for _, key := range s.keys {
		if value, ok := os.LookupEnv(EnvKey(s.prefix, key)); ok && value != "" {
			result[key] = value
		}
	}
	return result, nil
}

// EnvKey returns the variable name of key
func EnvKey(prefix, key string) string {
	name := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if prefix == "" {
		return name
	}
	return strings.ToUpper(prefix) + "_" + name
}
