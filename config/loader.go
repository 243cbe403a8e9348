package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KOMKZ/go-yogan-listener/options"
	"github.com/spf13/viper"
)

// Loader merges its sources by priority, fills every missing key from DefaultValues and decodes the result
type Loader struct {
	sources     []Source
	merged      map[string]any
	v           *viper.Viper
	loadedFiles []string
}

func NewLoader() *Loader {
	return &Loader{
		merged: make(map[string]any),
		v:      viper.New(),
	}
}

// AddSource adds a source; it is read on the next Load
func (l *Loader) AddSource(source Source) {
	l.sources = append(l.sources, source)
}

// Load reads every source, lowest priority first
func (l *Loader) Load() error {
	sort.SliceStable(l.sources, func(i, j int) bool {
		return l.sources[i].Priority() < l.sources[j].Priority()
	})

	merged := make(map[string]any)
	var files []string
	for _, source := range l.sources {
		data, err := source.Load()
		if err != nil {
			return fmt.Errorf("load source %s: %w", source.Name(), err)
		}
		if fs, ok := source.(*FileSource); ok && len(data) > 0 {
			files = append(files, fs.Path())
		}
		for key, value := range data {
			merged[strings.ToLower(key)] = value
		}
	}

	l.merged = options.Merge(merged, DefaultValues())
	l.loadedFiles = files

	l.v = viper.New()
	for key, value := range unflattenMap(l.merged) {
		l.v.Set(key, value)
	}
	return nil
}

// Config decodes and validates the loaded values
func (l *Loader) Config() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the value of a dotted key
func (l *Loader) Get(key string) any {
	return l.v.Get(key)
}

// IsSet reports whether key has a value, defaults included
func (l *Loader) IsSet(key string) bool {
	return l.v.IsSet(key)
}

// AllSettings returns the merged values as nested maps
func (l *Loader) AllSettings() map[string]any {
	return l.v.AllSettings()
}

// LoadedFiles lists the files that provided at least one value
func (l *Loader) LoadedFiles() []string {
	return l.loadedFiles
}

func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Reload reads every source again
func (l *Loader) Reload() error {
	return l.Load()
}

// flattenMap turns nested maps into dotted keys
// {"event": {"dispatch": {"store_data": true}}} -> {"event.dispatch.store_data": true}
func flattenMap(prefix string, data map[string]any) map[string]any {
	result := make(map[string]any)
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(fullKey, nested) {
				result[k] = v
			}
			continue
		}
		result[fullKey] = value
	}
	return result
}

// unflattenMap is the inverse of flattenMap
func unflattenMap(flat map[string]any) map[string]any {
	result := make(map[string]any)
	for key, value := range flat {
		setNestedValue(result, splitKey(key), value)
	}
	return result
}

func setNestedValue(m map[string]any, keys []string, value any) {
	if len(keys) == 0 {
		return
	}
	current := m
	for _, k := range keys[:len(keys)-1] {
		nested, ok := current[k].(map[string]any)
		if !ok {
			// a scalar in the way is replaced by a map
			nested = make(map[string]any)
			current[k] = nested
		}
		current = nested
	}
	current[keys[len(keys)-1]] = value
}

func splitKey(key string) []string {
	return strings.FieldsFunc(key, func(r rune) bool { return r == '.' })
}
