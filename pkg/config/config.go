// Package config loads host configuration for evaluating expressions:
// default variables, the register file backing v[i], WebAssembly function
// modules, evaluation limits and logging.
//
// Files are TOML (.toml) or YAML (.yaml, .yml):
//
//	max_depth = 500
//	timeout = "2s"
//	registers = [10.0, 20.0, 30.0]
//	wasm_modules = ["geometry.wasm"]
//
//	[variables]
//	vat = 0.2
//
//	[log]
//	level = "debug"
//	format = "json"
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/sandrolain/goparsec/pkg/evaluator"
)

// EnvVar names the environment variable consulted by LoadFromEnv.
const EnvVar = "GOPARSEC_CONFIG"

// Config holds the complete host configuration.
type Config struct {
	Variables   map[string]float64 `toml:"variables" yaml:"variables"`
	Registers   []float64          `toml:"registers" yaml:"registers"`
	WasmModules []string           `toml:"wasm_modules" yaml:"wasm_modules"`
	MaxDepth    int                `toml:"max_depth" yaml:"max_depth"` // 0 = default, negative disables the guard
	Timeout     Duration           `toml:"timeout" yaml:"timeout"`
	Normalize   bool               `toml:"normalize" yaml:"normalize"`
	Log         LogConfig          `toml:"log" yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`   // debug, info, warn, error
	Format string `toml:"format" yaml:"format"` // text, json
}

// Duration wraps time.Duration for TOML and YAML parsing.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration string
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension.
// Relative wasm module paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(content), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i, m := range cfg.WasmModules {
		m = os.ExpandEnv(m)
		if !filepath.IsAbs(m) {
			m = filepath.Join(dir, m)
		}
		cfg.WasmModules[i] = m
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by GOPARSEC_CONFIG, or the first of the
// default locations that exists. Without either it returns Default().
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}

	home, _ := os.UserHomeDir()
	defaultPaths := []string{
		"./goparsec.toml",
		"./goparsec.yaml",
		filepath.Join(home, ".config", "goparsec", "config.toml"),
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.MaxDepth == 0 {
		c.MaxDepth = evaluator.DefaultMaxDepth
	}
	if c.Timeout.Duration == 0 {
		c.Timeout.Duration = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// EvalOptions converts the configuration into evaluator options.
func (c *Config) EvalOptions() []evaluator.EvalOption {
	opts := []evaluator.EvalOption{
		evaluator.WithMaxDepth(c.MaxDepth),
		evaluator.WithTimeout(c.Timeout.Duration),
	}
	if len(c.Variables) > 0 {
		opts = append(opts, evaluator.WithVariables(c.Variables))
	}
	if len(c.Registers) > 0 {
		opts = append(opts, evaluator.WithExternal(evaluator.Registers(c.Registers)))
	}
	return opts
}

// NewLogger builds the configured slog logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
