// Package pipeline runs the spectrum delivery pipeline: one background
// worker goroutine that owns the analyzer process, reads and decodes its
// fixed-size binary records, smooths them, and sends the result over a
// channel to the single consumer.
//
// Data flows one direction: analyzer stdout → frame reader → smoothing →
// delivery channel → consumer. Each frame transfers ownership on send, so no
// mutable state is shared across the channel boundary. Frames are delivered
// strictly in production order; nothing is dropped or reordered.
//
// The worker supervises the analyzer: on a stream error it captures the
// process's stderr, tears the process down, and respawns it with exponential
// backoff. A circuit breaker stops the respawn loop when the analyzer fails
// persistently, which closes the delivery channel and ends the pipeline.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/gfuhrmann/barvis/internal/analyzer"
	"github.com/gfuhrmann/barvis/internal/observe"
	"github.com/gfuhrmann/barvis/internal/resilience"
	"github.com/gfuhrmann/barvis/internal/spectrum"
)

// defaultBuffer is the delivery channel capacity: roughly one second of
// frames at the analyzer's 60 fps cadence. The consumer is expected to keep
// up; the buffer only absorbs short redraw stalls.
const defaultBuffer = 64

// Source abstracts the spawned analyzer so tests can substitute an in-memory
// stream. [analyzer.Process] is the production implementation.
type Source interface {
	// Start spawns the underlying producer. The producer must terminate when
	// ctx is cancelled.
	Start(ctx context.Context) error

	// Output is the raw record stream. Valid after a successful Start and
	// owned exclusively by the pipeline worker.
	Output() io.Reader

	// Stop terminates the producer and releases its resources. Must be safe
	// to call more than once.
	Stop() error

	// Diagnostics returns any stderr text the producer emitted. Only
	// meaningful after Stop.
	Diagnostics() string
}

// Config configures a [Pipeline].
type Config struct {
	// Bars is the number of frequency bars per frame. Must be >= 1. Fixed
	// for the pipeline's lifetime; every delivered frame has exactly this
	// many elements.
	Bars int

	// Buffer is the delivery channel capacity. Default: 64.
	Buffer int

	// NewSource returns a fresh, unstarted source. Called once at Start and
	// once per restart; a source is never reused after it has failed.
	NewSource func() (Source, error)

	// MaxRestartFailures and RestartResetTimeout tune the restart circuit
	// breaker. Zero values use the resilience package defaults.
	MaxRestartFailures  int
	RestartResetTimeout time.Duration

	// RestartBackoff tunes the delay schedule between restart attempts.
	// Zero values use the resilience package defaults.
	RestartBackoff resilience.Backoff
}

// Pipeline produces smoothed spectrum frames from an external analyzer.
// Create with [New]; a Pipeline runs at most once.
type Pipeline struct {
	cfg     Config
	breaker *resilience.CircuitBreaker
	metrics *observe.Metrics
}

// New validates cfg and returns a ready-to-start Pipeline. metrics may be
// nil, in which case [observe.DefaultMetrics] is used.
func New(cfg Config, metrics *observe.Metrics) (*Pipeline, error) {
	if cfg.Bars < 1 {
		return nil, fmt.Errorf("pipeline: bar count must be >= 1, got %d", cfg.Bars)
	}
	if cfg.NewSource == nil {
		return nil, errors.New("pipeline: NewSource is required")
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	return &Pipeline{
		cfg: cfg,
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:         "analyzer",
			MaxFailures:  cfg.MaxRestartFailures,
			ResetTimeout: cfg.RestartResetTimeout,
		}),
		metrics: metrics,
	}, nil
}

// Start spawns the analyzer and the single worker goroutine, then returns
// the receive side of the delivery channel immediately. The channel is
// closed when ctx is cancelled or the analyzer fails beyond recovery; a
// failure to spawn the very first process is a startup precondition and is
// returned synchronously instead.
func (p *Pipeline) Start(ctx context.Context) (<-chan spectrum.Frame, error) {
	src, err := p.startSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: start analyzer: %w", err)
	}

	out := make(chan spectrum.Frame, p.cfg.Buffer)
	go p.run(ctx, src, out)
	return out, nil
}

// startSource creates and starts one source under the restart breaker, with
// a trace span around the spawn.
func (p *Pipeline) startSource(ctx context.Context) (Source, error) {
	var src Source
	err := p.breaker.Execute(func() error {
		spanCtx, span := observe.StartSpan(ctx, "analyzer.spawn")
		defer span.End()

		s, err := p.cfg.NewSource()
		if err != nil {
			return err
		}
		if err := s.Start(spanCtx); err != nil {
			return err
		}
		src = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return src, nil
}

// run is the worker loop. It owns src and the send side of out exclusively
// and closes out on exit — the consumer observes shutdown as channel close.
func (p *Pipeline) run(ctx context.Context, src Source, out chan<- spectrum.Frame) {
	defer close(out)
	defer func() { _ = src.Stop() }()

	reader := analyzer.NewFrameReader(src.Output(), p.cfg.Bars)
	backoff := p.cfg.RestartBackoff

	for {
		readStart := time.Now()
		raw, err := reader.Next()
		if err != nil {
			_ = src.Stop()
			if ctx.Err() != nil {
				// Shutdown tore the process down under us; not an error.
				return
			}

			diag := src.Diagnostics()
			p.metrics.ReadErrors.Add(ctx, 1)
			slog.Error("analyzer stream failed",
				"err", err,
				"stderr", diag,
			)

			next, rerr := p.restart(ctx, &backoff)
			if rerr != nil {
				if !errors.Is(rerr, context.Canceled) {
					slog.Error("analyzer unrecoverable, stopping pipeline", "err", rerr)
				}
				return
			}
			src = next
			reader = analyzer.NewFrameReader(src.Output(), p.cfg.Bars)
			continue
		}
		p.metrics.FrameReadDuration.Record(ctx, time.Since(readStart).Seconds())
		backoff.Reset()

		select {
		case out <- spectrum.Smooth(raw):
			p.metrics.FramesDelivered.Add(ctx, 1)
		case <-ctx.Done():
			return
		}
	}
}

// restart respawns the analyzer with exponential backoff until a spawn
// succeeds, ctx is cancelled, or the circuit breaker opens.
func (p *Pipeline) restart(ctx context.Context, backoff *resilience.Backoff) (Source, error) {
	for {
		delay := backoff.Next()
		slog.Info("restarting analyzer", "backoff", delay)
		if err := resilience.Sleep(ctx, delay); err != nil {
			return nil, err
		}

		src, err := p.startSource(ctx)
		if err != nil {
			if errors.Is(err, resilience.ErrCircuitOpen) {
				return nil, fmt.Errorf("pipeline: analyzer keeps failing: %w", err)
			}
			slog.Warn("analyzer restart failed", "err", err)
			continue
		}

		p.metrics.AnalyzerRestarts.Add(ctx, 1, withReason("stream_error"))
		return src, nil
	}
}

// withReason tags a counter increment with the restart reason.
func withReason(reason string) metric.AddOption {
	return metric.WithAttributes(observe.Attr("reason", reason))
}
