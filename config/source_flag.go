package config

import (
	"fmt"
	"reflect"
	"strings"
)

// FlagSource maps the fields of a parsed flag struct to configuration keys
//
//	type Flags struct {
//	    LogLevel string `config:"logger.level"`
//	    Throw    bool   `config:"event.subscribe.should_throw_errors,event.unsubscribe.should_throw_errors"`
//	}
//
// Zero values are skipped so unset flags do not override lower sources.
type FlagSource struct {
	flags    any
	priority int
}

func NewFlagSource(flags any, priority int) *FlagSource {
	return &FlagSource{flags: flags, priority: priority}
}

func (s *FlagSource) Name() string {
	return "flags"
}

func (s *FlagSource) Priority() int {
	return s.priority
}

func (s *FlagSource) Load() (map[string]any, error) {
	result := make(map[string]any)
	if s.flags == nil {
		return result, nil
	}

	v := reflect.ValueOf(s.flags)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return result, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("flags must be a struct or pointer to struct, got %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanInterface() || field.IsZero() {
			continue
		}
		for _, key := range strings.Split(t.Field(i).Tag.Get("config"), ",") {
			key = strings.TrimSpace(key)
			if key == "" || key == "-" {
				continue
			}
			result[key] = field.Interface()
		}
	}

	return result, nil
}
