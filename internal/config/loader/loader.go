// Package loader provides multi-source configuration loading
package loader

import (
	"os"
	"sort"

	"sandbox-tunnel/internal/config/schema"
	"sandbox-tunnel/internal/config/source"
	coreerrors "sandbox-tunnel/internal/core/errors"
	corelog "sandbox-tunnel/internal/core/log"
)

// Loader loads configuration from multiple sources in priority order
type Loader struct {
	sources []source.Source
}

// NewLoader creates a new Loader
func NewLoader() *Loader {
	return &Loader{
		sources: make([]source.Source, 0),
	}
}

// AddSource adds a configuration source
func (l *Loader) AddSource(s source.Source) {
	l.sources = append(l.sources, s)
}

// Load loads configuration from all sources in priority order
// Lower priority sources are loaded first, then higher priority sources override
func (l *Loader) Load() (*schema.Root, error) {
	if len(l.sources) == 0 {
		return nil, coreerrors.New(coreerrors.CodeInvalidParam, "no configuration sources registered")
	}

	sorted := make([]source.Source, len(l.sources))
	copy(sorted, l.sources)
	sort.Stable(source.ByPriority(sorted))

	cfg := &schema.Root{}
	for _, s := range sorted {
		corelog.Debugf("Loading configuration from source: %s (priority %d)", s.Name(), s.Priority())
		if err := s.LoadInto(cfg); err != nil {
			return nil, coreerrors.Wrapf(err, coreerrors.GetCode(err),
				"failed to load configuration from source %s", s.Name())
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoaderBuilder helps build a Loader with the standard source chain
type LoaderBuilder struct {
	prefix     string
	configFile string
	overrides  source.Overrides
}

// NewLoaderBuilder creates a new LoaderBuilder
func NewLoaderBuilder() *LoaderBuilder {
	return &LoaderBuilder{
		prefix: source.EnvPrefix,
	}
}

// WithPrefix sets the environment variable prefix
func (b *LoaderBuilder) WithPrefix(prefix string) *LoaderBuilder {
	b.prefix = prefix
	return b
}

// WithConfigFile sets the configuration file path
func (b *LoaderBuilder) WithConfigFile(path string) *LoaderBuilder {
	b.configFile = path
	return b
}

// WithOverrides sets the command line overrides
func (b *LoaderBuilder) WithOverrides(o source.Overrides) *LoaderBuilder {
	b.overrides = o
	return b
}

// Build creates the configured Loader
// An explicitly named config file that does not exist is an error
func (b *LoaderBuilder) Build() (*Loader, error) {
	l := NewLoader()

	// 1. Defaults (lowest priority)
	l.AddSource(source.NewDefaultSource())

	// 2. YAML file
	configFile := source.FindConfigFile(b.configFile)
	if configFile != "" {
		if b.configFile != "" {
			if _, err := os.Stat(configFile); err != nil {
				return nil, coreerrors.Wrapf(err, coreerrors.CodeConfigError, "config file %q not found", configFile)
			}
		}
		l.AddSource(source.NewYAMLSource(configFile))
		corelog.Debugf("Using config file: %s", configFile)
	}

	// 3. Environment variables
	l.AddSource(source.NewEnvSource(b.prefix))

	// 4. CLI flags (highest priority)
	l.AddSource(source.NewFlagSource(b.overrides))

	return l, nil
}

// Load is a convenience function that builds the standard loader and loads configuration
func Load(configFile string, overrides source.Overrides) (*schema.Root, error) {
	l, err := NewLoaderBuilder().
		WithConfigFile(configFile).
		WithOverrides(overrides).
		Build()
	if err != nil {
		return nil, err
	}
	return l.Load()
}
