// Command barvis spawns an external audio spectrum analyzer, reads its raw
// binary frame stream, smooths it, and renders the result as a terminal bar
// meter. Metrics and health endpoints are served over HTTP when configured.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/gfuhrmann/barvis/internal/analyzer"
	"github.com/gfuhrmann/barvis/internal/config"
	"github.com/gfuhrmann/barvis/internal/health"
	"github.com/gfuhrmann/barvis/internal/observe"
	"github.com/gfuhrmann/barvis/internal/pipeline"
	"github.com/gfuhrmann/barvis/internal/render"
	"github.com/gfuhrmann/barvis/internal/resilience"
)

// version is stamped into telemetry. Overridden at release time via
// -ldflags "-X main.version=...".
var version = "dev"

// frameMaxAge is how stale the last delivered frame may be before /readyz
// reports the pipeline as not ready. Three times the 60 fps cadence would be
// too twitchy; two seconds tolerates brief consumer stalls.
const frameMaxAge = 2 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "barvis: config file %q not found, copy example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "barvis: %v\n", err)
		}
		return 1
	}

	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("barvis starting",
		"config", *configPath,
		"analyzer", cfg.Analyzer.Binary,
		"bars", cfg.Analyzer.Bars,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// The analyzer reads its settings from a generated file; writing it is a
	// startup precondition, not something retried.
	analyzerConfig, err := analyzer.WriteConfig(cfg.Analyzer.ConfigPath, cfg.Analyzer.Bars)
	if err != nil {
		slog.Error("failed to write analyzer config", "err", err)
		return 1
	}
	slog.Debug("analyzer config written", "path", analyzerConfig)

	pipe, err := pipeline.New(pipeline.Config{
		Bars:   cfg.Analyzer.Bars,
		Buffer: cfg.Analyzer.Buffer,
		NewSource: func() (pipeline.Source, error) {
			return analyzer.NewProcess(cfg.Analyzer.Binary, analyzerConfig), nil
		},
		MaxRestartFailures:  cfg.Restart.MaxFailures,
		RestartResetTimeout: cfg.Restart.ResetTimeout,
		RestartBackoff: resilience.Backoff{
			Initial: cfg.Restart.InitialBackoff,
			Max:     cfg.Restart.MaxBackoff,
		},
	}, metrics)
	if err != nil {
		slog.Error("failed to build pipeline", "err", err)
		return 1
	}

	frames, err := pipe.Start(ctx)
	if err != nil {
		slog.Error("failed to start pipeline", "err", err)
		return 1
	}

	var hb health.Heartbeat
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Server.ListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.Handler())
		health.New(hb.Checker(frameMaxAge)).Register(mux)

		srv := &http.Server{Addr: cfg.Server.ListenAddr, Handler: mux}
		g.Go(func() error {
			slog.Info("observability endpoint listening", "addr", cfg.Server.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	renderer := render.New(os.Stdout, metrics)
	renderer.OnFrame = hb.Beat
	g.Go(func() error {
		return renderer.Run(gctx, frames)
	})

	slog.Info("pipeline running, press Ctrl+C to stop")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
