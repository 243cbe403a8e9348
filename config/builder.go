package config

// LoaderBuilder assembles the usual sources: config files, then environment, then flags
type LoaderBuilder struct {
	files     []string
	envPrefix string
	flags     any
}

func NewLoaderBuilder() *LoaderBuilder {
	return &LoaderBuilder{}
}

// WithConfigFile adds a file; later files override earlier ones
func (b *LoaderBuilder) WithConfigFile(path string) *LoaderBuilder {
	if path != "" {
		b.files = append(b.files, path)
	}
	return b
}

// WithEnvPrefix enables environment overrides, e.g. "LISTENER"
func (b *LoaderBuilder) WithEnvPrefix(prefix string) *LoaderBuilder {
	b.envPrefix = prefix
	return b
}

// WithFlags adds a flag struct read through `config` tags
func (b *LoaderBuilder) WithFlags(flags any) *LoaderBuilder {
	b.flags = flags
	return b
}

// Build creates the loader and loads it
func (b *LoaderBuilder) Build() (*Loader, error) {
	loader := NewLoader()

	for i, path := range b.files {
		loader.AddSource(NewFileSource(path, PriorityFile+i))
	}
	if b.envPrefix != "" {
		loader.AddSource(NewEnvSource(b.envPrefix, PriorityEnv, Keys()))
	}
	if b.flags != nil {
		loader.AddSource(NewFlagSource(b.flags, PriorityFlag))
	}

	if err := loader.Load(); err != nil {
		return nil, err
	}
	return loader, nil
}
