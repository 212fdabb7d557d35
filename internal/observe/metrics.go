// Package observe provides application-wide observability for barvis:
// OpenTelemetry metrics with a Prometheus exporter bridge, and lifecycle
// tracing around the analyzer process.
//
// Metrics are recorded through the OpenTelemetry Metrics API and scraped via
// the standard /metrics endpoint. A package-level default [Metrics] instance
// ([DefaultMetrics]) is provided for convenience; tests should use
// [NewMetrics] with a custom [metric.MeterProvider] to avoid cross-test
// pollution.
package observe

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all barvis metrics.
const meterName = "github.com/gfuhrmann/barvis"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// FramesDelivered counts smoothed frames handed to the delivery channel.
	FramesDelivered metric.Int64Counter

	// FrameReadDuration tracks how long one blocking read+decode of a full
	// analyzer record takes. Dominated by the analyzer's frame rate in
	// healthy operation, so spikes indicate a stalling analyzer.
	FrameReadDuration metric.Float64Histogram

	// AnalyzerRestarts counts analyzer process restarts. Use with attribute:
	//   attribute.String("reason", ...)
	AnalyzerRestarts metric.Int64Counter

	// ReadErrors counts short reads / stream errors from the analyzer stdout.
	ReadErrors metric.Int64Counter

	// RendererRedraws counts frames that actually changed and triggered a
	// redraw, as opposed to frames dropped by the equality check.
	RendererRedraws metric.Int64Counter

	// RendererSkips counts frames skipped because they matched the
	// previously rendered frame.
	RendererSkips metric.Int64Counter
}

// frameReadBuckets defines histogram bucket boundaries (in seconds) sized
// around the 60 fps analyzer cadence (~16.7ms per frame).
var frameReadBuckets = []float64{
	0.005, 0.01, 0.017, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.FramesDelivered, err = m.Int64Counter("barvis.frames.delivered",
		metric.WithDescription("Smoothed frames delivered to the consumer channel."),
	); err != nil {
		return nil, err
	}
	if met.FrameReadDuration, err = m.Float64Histogram("barvis.frame.read_duration",
		metric.WithDescription("Blocking read+decode time for one analyzer record."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(frameReadBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AnalyzerRestarts, err = m.Int64Counter("barvis.analyzer.restarts",
		metric.WithDescription("Analyzer process restarts."),
	); err != nil {
		return nil, err
	}
	if met.ReadErrors, err = m.Int64Counter("barvis.analyzer.read_errors",
		metric.WithDescription("Short reads or stream errors from the analyzer stdout."),
	); err != nil {
		return nil, err
	}
	if met.RendererRedraws, err = m.Int64Counter("barvis.renderer.redraws",
		metric.WithDescription("Frames that changed and triggered a redraw."),
	); err != nil {
		return nil, err
	}
	if met.RendererSkips, err = m.Int64Counter("barvis.renderer.skips",
		metric.WithDescription("Frames skipped because they matched the previous frame."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}
