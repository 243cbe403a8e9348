package config

import (
	"fmt"

	"github.com/samber/do/v2"
)

// ProvideLoaderOptions selects the sources of the Loader
type ProvideLoaderOptions struct {
	ConfigFiles []string // later files override earlier ones
	EnvPrefix   string   // empty disables environment overrides
	Flags       any      // struct read through `config` tags, may be nil
}

// ProvideLoader returns a do provider building the Loader; it has no dependencies
//
//	do.Provide(injector, config.ProvideLoader(config.ProvideLoaderOptions{EnvPrefix: "LISTENER"}))
//	loader := do.MustInvoke[*config.Loader](injector)
func ProvideLoader(opts ProvideLoaderOptions) func(do.Injector) (*Loader, error) {
	return func(do.Injector) (*Loader, error) {
		b := NewLoaderBuilder().WithEnvPrefix(opts.EnvPrefix).WithFlags(opts.Flags)
		for _, path := range opts.ConfigFiles {
			b.WithConfigFile(path)
		}
		loader, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("config loader build failed: %w", err)
		}
		return loader, nil
	}
}

// ProvideConfig decodes and validates the configuration of the injected Loader
func ProvideConfig(i do.Injector) (*Config, error) {
	loader, err := do.Invoke[*Loader](i)
	if err != nil {
		return nil, err
	}
	return loader.Config()
}
