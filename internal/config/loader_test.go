package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/gfuhrmann/barvis/internal/config"
)

func TestLoadFromReader_AppliesDefaults(t *testing.T) {
	cfg, err := config.LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("log level = %q, want info", cfg.Server.LogLevel)
	}
	if cfg.Analyzer.Binary != "cava" {
		t.Errorf("binary = %q, want cava", cfg.Analyzer.Binary)
	}
	if cfg.Analyzer.Bars != 20 {
		t.Errorf("bars = %d, want 20", cfg.Analyzer.Bars)
	}
}

func TestLoadFromReader_ParsesFullConfig(t *testing.T) {
	yaml := `
server:
  listen_addr: ":9090"
  log_level: debug
analyzer:
  binary: fakeanalyzer
  bars: 32
  buffer: 128
restart:
  max_failures: 3
  reset_timeout: 10s
  initial_backoff: 100ms
  max_backoff: 5s
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Analyzer.Bars != 32 {
		t.Errorf("bars = %d, want 32", cfg.Analyzer.Bars)
	}
	if cfg.Restart.ResetTimeout != 10*time.Second {
		t.Errorf("reset_timeout = %s, want 10s", cfg.Restart.ResetTimeout)
	}
	if cfg.Restart.InitialBackoff != 100*time.Millisecond {
		t.Errorf("initial_backoff = %s, want 100ms", cfg.Restart.InitialBackoff)
	}
}

func TestLoadFromReader_RejectsUnknownFields(t *testing.T) {
	yaml := `
analyzer:
  barz: 20
`
	if _, err := config.LoadFromReader(strings.NewReader(yaml)); err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	yaml := `
server:
  log_level: verbose
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for invalid log level, got nil")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
}

func TestValidate_BarsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative", "analyzer:\n  bars: -1\n"},
		{"too large", "analyzer:\n  bars: 100000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFromReader(strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), "bars") {
				t.Errorf("error should mention bars, got: %v", err)
			}
		})
	}
}

func TestValidate_BackoffOrdering(t *testing.T) {
	yaml := `
restart:
  initial_backoff: 10s
  max_backoff: 1s
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for initial_backoff > max_backoff, got nil")
	}
	if !strings.Contains(err.Error(), "initial_backoff") {
		t.Errorf("error should mention initial_backoff, got: %v", err)
	}
}

func TestLoadFromReader_EnvOverrides(t *testing.T) {
	t.Setenv("BARVIS_BARS", "64")
	t.Setenv("BARVIS_ANALYZER_BINARY", "fakeanalyzer")

	cfg, err := config.LoadFromReader(strings.NewReader("analyzer:\n  bars: 20\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Analyzer.Bars != 64 {
		t.Errorf("bars = %d, want env override 64", cfg.Analyzer.Bars)
	}
	if cfg.Analyzer.Binary != "fakeanalyzer" {
		t.Errorf("binary = %q, want env override fakeanalyzer", cfg.Analyzer.Binary)
	}
}
