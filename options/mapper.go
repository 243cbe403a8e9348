// Package options maps caller supplied options onto defaults.
package options

import "reflect"

// Merge fills every key of defaults that is missing from options
// Shallow: nested maps and slices are shared, not merged
// Returns options itself (mutated); options identical to defaults is returned untouched
func Merge(options, defaults map[string]any) map[string]any {
	if sameMap(options, defaults) {
		return options
	}
	if options == nil {
		options = make(map[string]any, len(defaults))
	}
	for k, v := range defaults {
		if _, ok := options[k]; !ok {
			options[k] = v
		}
	}
	return options
}

// Apply returns defaults with the caller overrides applied in order
// Fields no override touches keep their default value
func Apply[T any, O ~func(*T)](defaults T, opts ...O) T {
	if len(opts) == 0 {
		return defaults
	}
	merged := defaults
	for _, opt := range opts {
		if fn := (func(*T))(opt); fn != nil {
			fn(&merged)
		}
	}
	return merged
}

// sameMap reports whether a and b are the same map value (not just equal contents)
func sameMap(a, b map[string]any) bool {
	if a == nil || b == nil {
		return false
	}
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}
