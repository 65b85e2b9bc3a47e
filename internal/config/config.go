// Package config holds the generator settings. Values come from the defaults,
// then the YAML file, then a .env file and the SAVEPIPE_* environment; the
// CLI applies its flags last.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"savepipe/internal/gen"
)

// Default file names. Missing default files are not an error.
const (
	DefaultFile    = "savepipe.yaml"
	DefaultEnvFile = ".env"
)

const envPrefix = "SAVEPIPE_"

// Config is the full set of generator settings.
type Config struct {
	// Patterns are the Go package patterns to load.
	Patterns []string `yaml:"patterns"`
	// Workers bounds concurrent artifact generation.
	Workers int `yaml:"workers"`
	// BuildTags are passed to the go tool while loading packages.
	BuildTags  []string `yaml:"build_tags,omitempty"`
	DeclSuffix string   `yaml:"decl_suffix"`
	ImplSuffix string   `yaml:"impl_suffix"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	opts := gen.DefaultOptions()

	return &Config{
		Patterns:   []string{"./..."},
		Workers:    opts.Workers,
		DeclSuffix: opts.DeclSuffix,
		ImplSuffix: opts.ImplSuffix,
		LogLevel:   "info",
	}
}

// Load builds the configuration from file and envFile on top of the
// defaults, then applies the process environment. Either name may be empty
// to skip that source.
func Load(file, envFile string) (*Config, error) {
	cfg := Default()

	if file != "" {
		data, err := os.ReadFile(file)

		switch {
		case err == nil:
			if err := cfg.parse(data); err != nil {
				return nil, err
			}
		case errors.Is(err, fs.ErrNotExist) && file == DefaultFile:
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	env, err := readEnv(envFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Parse parses YAML data on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.parse(data); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) parse(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return nil
}

// readEnv merges the .env file with the process environment. Variables
// already set in the environment win, as with godotenv.Load. Only the default
// file may be missing.
func readEnv(envFile string) (map[string]string, error) {
	env := make(map[string]string)

	if envFile != "" {
		vars, err := godotenv.Read(envFile)

		switch {
		case err == nil:
			for k, v := range vars {
				env[k] = v
			}
		case errors.Is(err, fs.ErrNotExist) && envFile == DefaultEnvFile:
		default:
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, envPrefix) {
			env[k] = v
		}
	}

	return env, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	if v, ok := env[envPrefix+"PATTERNS"]; ok {
		c.Patterns = splitList(v)
	}

	if v, ok := env[envPrefix+"WORKERS"]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sWORKERS %q: %w", envPrefix, v, err)
		}

		c.Workers = n
	}

	if v, ok := env[envPrefix+"BUILD_TAGS"]; ok {
		c.BuildTags = splitList(v)
	}

	if v, ok := env[envPrefix+"DECL_SUFFIX"]; ok {
		c.DeclSuffix = v
	}

	if v, ok := env[envPrefix+"IMPL_SUFFIX"]; ok {
		c.ImplSuffix = v
	}

	if v, ok := env[envPrefix+"LOG_LEVEL"]; ok {
		c.LogLevel = v
	}

	return nil
}

func splitList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

// Validate checks the settings for values generation cannot work with.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Patterns) == 0 {
		errs = append(errs, errors.New("no package patterns"))
	}

	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}

	if !strings.HasSuffix(c.DeclSuffix, ".go") || !strings.HasSuffix(c.ImplSuffix, ".go") {
		errs = append(errs, errors.New("artifact suffixes must end in .go"))
	}

	if c.DeclSuffix == c.ImplSuffix {
		errs = append(errs, errors.New("declaration and implementation suffixes must differ"))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Level returns LogLevel as a slog level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	return l, nil
}

// GenOptions returns the generation options the settings describe.
func (c *Config) GenOptions() gen.Options {
	return gen.Options{
		Workers:    c.Workers,
		DeclSuffix: c.DeclSuffix,
		ImplSuffix: c.ImplSuffix,
	}
}

// SkipSuffixes lists the file suffixes of generated artifacts.
func (c *Config) SkipSuffixes() []string {
	return []string{c.DeclSuffix, c.ImplSuffix}
}

// Marshal serializes c to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile writes c to path as YAML.
func WriteFile(c *Config, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}
