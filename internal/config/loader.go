package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix for environment variable overrides (BARVIS_*).
const envPrefix = "barvis"

// maxBars bounds the configurable bar count. cava itself refuses absurd bar
// counts; this guards the frame buffer sizing on our side.
const maxBars = 1024

// Load reads the YAML configuration file at path, applies environment
// variable overrides, and returns a validated [Config].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies environment variable
// overrides, fills defaults, and validates the result. Useful in tests where
// configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: env overrides: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero-value fields that have non-zero defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.Analyzer.Binary == "" {
		cfg.Analyzer.Binary = "cava"
	}
	if cfg.Analyzer.Bars == 0 {
		cfg.Analyzer.Bars = 20
	}
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if cfg.Analyzer.Bars < 1 {
		errs = append(errs, fmt.Errorf("analyzer.bars must be >= 1, got %d", cfg.Analyzer.Bars))
	} else if cfg.Analyzer.Bars > maxBars {
		errs = append(errs, fmt.Errorf("analyzer.bars %d exceeds the maximum of %d", cfg.Analyzer.Bars, maxBars))
	}
	if cfg.Analyzer.Buffer < 0 {
		errs = append(errs, fmt.Errorf("analyzer.buffer must not be negative, got %d", cfg.Analyzer.Buffer))
	}

	if cfg.Restart.MaxFailures < 0 {
		errs = append(errs, fmt.Errorf("restart.max_failures must not be negative, got %d", cfg.Restart.MaxFailures))
	}
	if cfg.Restart.ResetTimeout < 0 {
		errs = append(errs, fmt.Errorf("restart.reset_timeout must not be negative, got %s", cfg.Restart.ResetTimeout))
	}
	if cfg.Restart.InitialBackoff < 0 {
		errs = append(errs, fmt.Errorf("restart.initial_backoff must not be negative, got %s", cfg.Restart.InitialBackoff))
	}
	if cfg.Restart.MaxBackoff < 0 {
		errs = append(errs, fmt.Errorf("restart.max_backoff must not be negative, got %s", cfg.Restart.MaxBackoff))
	}
	if cfg.Restart.MaxBackoff > 0 && cfg.Restart.InitialBackoff > cfg.Restart.MaxBackoff {
		errs = append(errs, fmt.Errorf("restart.initial_backoff %s exceeds restart.max_backoff %s", cfg.Restart.InitialBackoff, cfg.Restart.MaxBackoff))
	}

	return errors.Join(errs...)
}
