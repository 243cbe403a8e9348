// Package flagx binds cobra flags to tagged struct fields
//
//	type Flags struct {
//	    Config  string        `flag:"config,c" usage:"config file"`
//	    Events  int           `flag:"events,n" usage:"native events to fire" default:"3"`
//	    Timeout time.Duration `flag:"timeout" default:"2s"`
//	    Throw   bool          `flag:"throw" config:"event.subscribe.should_throw_errors"`
//	}
//
// BindFlags registers one flag per field; ParseFlags copies the parsed values back.
// The `config` tag is read by config.FlagSource, not here.
package flagx

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var durationType = reflect.TypeOf(time.Duration(0))

type flagTag struct {
	name     string
	short    string
	usage    string
	def      string
	required bool
}

func parseTag(f reflect.StructField) (flagTag, bool) {
	raw := f.Tag.Get("flag")
	if raw == "" || raw == "-" {
		return flagTag{}, false
	}
	parts := strings.Split(raw, ",")
	tag := flagTag{
		name:     strings.TrimSpace(parts[0]),
		usage:    f.Tag.Get("usage"),
		def:      f.Tag.Get("default"),
		required: f.Tag.Get("required") == "true",
	}
	if len(parts) > 1 {
		tag.short = strings.TrimSpace(parts[1])
	}
	return tag, true
}

func structValue(target any) (reflect.Value, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("target must be a pointer to struct, got %T", target)
	}
	return v.Elem(), nil
}

// BindFlags registers a flag for every `flag`-tagged field of target
func BindFlags(cmd *cobra.Command, target any) error {
	v, err := structValue(target)
	if err != nil {
		return err
	}
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := parseTag(field)
		if !ok || !field.IsExported() {
			continue
		}
		if err := registerFlag(cmd.Flags(), field.Type, tag); err != nil {
			return fmt.Errorf("bind field %s: %w", field.Name, err)
		}
		if tag.required {
			if err := cmd.MarkFlagRequired(tag.name); err != nil {
				return err
			}
		}
	}
	return nil
}

func registerFlag(fs *pflag.FlagSet, typ reflect.Type, tag flagTag) error {
	if typ == durationType {
		def, err := parseDefault(tag.def, time.ParseDuration)
		if err != nil {
			return err
		}
		fs.DurationP(tag.name, tag.short, def, tag.usage)
		return nil
	}

	switch typ.Kind() {
	case reflect.String:
		fs.StringP(tag.name, tag.short, tag.def, tag.usage)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		def, err := parseDefault(tag.def, strconv.Atoi)
		if err != nil {
			return err
		}
		fs.IntP(tag.name, tag.short, def, tag.usage)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		def, err := parseDefault(tag.def, func(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) })
		if err != nil {
			return err
		}
		fs.UintP(tag.name, tag.short, uint(def), tag.usage)
	case reflect.Bool:
		def, err := parseDefault(tag.def, strconv.ParseBool)
		if err != nil {
			return err
		}
		fs.BoolP(tag.name, tag.short, def, tag.usage)
	case reflect.Float32, reflect.Float64:
		def, err := parseDefault(tag.def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
		if err != nil {
			return err
		}
		fs.Float64P(tag.name, tag.short, def, tag.usage)
	case reflect.Slice:
		switch typ.Elem().Kind() {
		case reflect.String:
			fs.StringSliceP(tag.name, tag.short, nil, tag.usage)
		case reflect.Int:
			fs.IntSliceP(tag.name, tag.short, nil, tag.usage)
		default:
			return fmt.Errorf("unsupported slice element type: %s", typ.Elem().Kind())
		}
	default:
		return fmt.Errorf("unsupported field type: %s", typ.Kind())
	}
	return nil
}

func parseDefault[T any](raw string, parse func(string) (T, error)) (T, error) {
	var zero T
	if raw == "" {
		return zero, nil
	}
	v, err := parse(raw)
	if err != nil {
		return zero, fmt.Errorf("invalid default %q: %w", raw, err)
	}
	return v, nil
}

// ParseFlags copies the parsed flag values into the `flag`-tagged fields of target
func ParseFlags(cmd *cobra.Command, target any) error {
	v, err := structValue(target)
	if err != nil {
		return err
	}
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		tag, ok := parseTag(t.Field(i))
		field := v.Field(i)
		if !ok || !field.CanSet() {
			continue
		}
		if err := setFieldValue(cmd.Flags(), field, tag.name); err != nil {
			return fmt.Errorf("parse field %s: %w", t.Field(i).Name, err)
		}
	}
	return nil
}

func setFieldValue(fs *pflag.FlagSet, field reflect.Value, name string) error {
	if fs.Lookup(name) == nil {
		return fmt.Errorf("flag --%s is not defined", name)
	}

	if field.Type() == durationType {
		val, err := fs.GetDuration(name)
		if err != nil {
			return err
		}
		field.SetInt(int64(val))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		val, err := fs.GetString(name)
		if err != nil {
			return err
		}
		field.SetString(val)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := fs.GetInt(name)
		if err != nil {
			return err
		}
		if field.OverflowInt(int64(val)) {
			return fmt.Errorf("value %d overflows %s", val, field.Type())
		}
		field.SetInt(int64(val))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := fs.GetUint(name)
		if err != nil {
			return err
		}
		if field.OverflowUint(uint64(val)) {
			return fmt.Errorf("value %d overflows %s", val, field.Type())
		}
		field.SetUint(uint64(val))
	case reflect.Bool:
		val, err := fs.GetBool(name)
		if err != nil {
			return err
		}
		field.SetBool(val)
	case reflect.Float32, reflect.Float64:
		val, err := fs.GetFloat64(name)
		if err != nil {
			return err
		}
		field.SetFloat(val)
	case reflect.Slice:
		switch field.Type().Elem().Kind() {
		case reflect.String:
			val, err := fs.GetStringSlice(name)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(val))
		case reflect.Int:
			val, err := fs.GetIntSlice(name)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(val))
		default:
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}
