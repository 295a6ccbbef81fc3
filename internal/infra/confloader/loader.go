package confloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultEnvPrefix is the default environment variable prefix.
	DefaultEnvPrefix = "REVIEWGATE_"

	// DefaultDotEnvFile is read, if present, when no env file is configured.
	DefaultDotEnvFile = ".env"

	// envLevelSeparator separates nesting levels in variable names:
	// REVIEWGATE_SERVER__HTTP__ADDR sets server.http.addr.
	envLevelSeparator = "__"
)

// Loader merges configuration sources into a struct with koanf tags.
type Loader struct {
	k *koanf.Koanf

	envPrefix    string
	filePath     string
	dotEnvPath   string
	dotEnvStrict bool
	overrides    map[string]any

	sources []string
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithConfigFile sets the YAML file to load. The file must exist.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.filePath = path }
}

// WithDotEnvFile sets an env file that must exist. Its variables are added
// to the process environment without replacing variables already set.
func WithDotEnvFile(path string) Option {
	return func(l *Loader) {
		l.dotEnvPath = path
		l.dotEnvStrict = path != ""
	}
}

// WithOverrides sets values, keyed by dotted path, applied last.
func WithOverrides(values map[string]any) Option {
	return func(l *Loader) { l.overrides = values }
}

// NewLoader creates a loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:          koanf.New("."),
		envPrefix:  DefaultEnvPrefix,
		dotEnvPath: DefaultDotEnvFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load merges file, environment and overrides, in ascending priority, into
// target. Keys absent from every source keep the value already in target,
// so callers pass a struct filled with defaults.
func (l *Loader) Load(target any) error {
	if err := l.loadFile(); err != nil {
		return err
	}
	if err := l.loadDotEnv(); err != nil {
		return err
	}
	if err := l.loadEnv(); err != nil {
		return err
	}
	if err := l.loadOverrides(); err != nil {
		return err
	}

	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// Sources lists the sources that contributed to the last Load, lowest
// priority first.
func (l *Loader) Sources() []string {
	return append([]string(nil), l.sources...)
}

func (l *Loader) loadFile() error {
	if l.filePath == "" {
		return nil
	}
	if err := l.k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
		return fmt.Errorf("load config file %s: %w", l.filePath, err)
	}
	l.sources = append(l.sources, "file:"+l.filePath)
	return nil
}

// loadDotEnv reads the env file into the process environment. A missing
// default file is ignored; a missing explicit file is an error.
func (l *Loader) loadDotEnv() error {
	if l.dotEnvPath == "" {
		return nil
	}
	err := godotenv.Load(l.dotEnvPath)
	switch {
	case err == nil:
		l.sources = append(l.sources, "dotenv:"+l.dotEnvPath)
		return nil
	case !l.dotEnvStrict && errors.Is(err, fs.ErrNotExist):
		return nil
	}
	return fmt.Errorf("load env file %s: %w", l.dotEnvPath, err)
}

func (l *Loader) loadEnv() error {
	transform := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
		return strings.ReplaceAll(s, envLevelSeparator, ".")
	}
	if err := l.k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	if hasPrefixedEnv(l.envPrefix) {
		l.sources = append(l.sources, "env:"+l.envPrefix+"*")
	}
	return nil
}

func (l *Loader) loadOverrides() error {
	if len(l.overrides) == 0 {
		return nil
	}
	if err := l.k.Load(mapProvider(l.overrides), nil); err != nil {
		return fmt.Errorf("load overrides: %w", err)
	}
	l.sources = append(l.sources, "overrides")
	return nil
}

func hasPrefixedEnv(prefix string) bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, prefix) {
			return true
		}
	}
	return false
}
