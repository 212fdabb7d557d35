// Package config provides the configuration schema and loader for barvis.
package config

import "time"

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for barvis. It is typically
// loaded from a YAML file using [Load] or [LoadFromReader]; every field can
// be overridden through BARVIS_* environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Restart  RestartConfig  `yaml:"restart"`
}

// ServerConfig holds the observability endpoint and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address serving /metrics, /healthz and /readyz
	// (e.g. ":9090"). Empty disables the HTTP server.
	ListenAddr string `yaml:"listen_addr" envconfig:"LISTEN_ADDR"`

	// LogLevel controls verbosity. Default: info.
	LogLevel LogLevel `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

// AnalyzerConfig describes the external spectrum analyzer and the frame
// shape it is configured to emit.
type AnalyzerConfig struct {
	// Binary is the analyzer executable to spawn. Default: "cava".
	Binary string `yaml:"binary" envconfig:"ANALYZER_BINARY"`

	// Bars is the number of frequency bars per frame. Determines the wire
	// record size (2 bytes per bar) and the length of every delivered
	// frame. Must be >= 1. Default: 20.
	Bars int `yaml:"bars" envconfig:"BARS"`

	// ConfigPath overrides where the generated analyzer configuration is
	// written. Empty uses a fixed name under the system temp directory.
	ConfigPath string `yaml:"config_path" envconfig:"ANALYZER_CONFIG_PATH"`

	// Buffer is the delivery channel capacity. Zero uses the pipeline
	// default (one second of frames at 60 fps).
	Buffer int `yaml:"buffer" envconfig:"BUFFER"`
}

// RestartConfig tunes the analyzer restart supervision. Zero values use the
// resilience package defaults.
type RestartConfig struct {
	// MaxFailures is how many consecutive spawn failures trip the restart
	// circuit breaker and stop the pipeline.
	MaxFailures int `yaml:"max_failures" envconfig:"RESTART_MAX_FAILURES"`

	// ResetTimeout is how long the tripped breaker waits before allowing a
	// probe spawn.
	ResetTimeout time.Duration `yaml:"reset_timeout" envconfig:"RESTART_RESET_TIMEOUT"`

	// InitialBackoff is the delay before the first restart attempt; each
	// subsequent attempt doubles it.
	InitialBackoff time.Duration `yaml:"initial_backoff" envconfig:"RESTART_INITIAL_BACKOFF"`

	// MaxBackoff caps the restart delay.
	MaxBackoff time.Duration `yaml:"max_backoff" envconfig:"RESTART_MAX_BACKOFF"`
}
