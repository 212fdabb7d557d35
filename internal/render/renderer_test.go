package render_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/gfuhrmann/barvis/internal/observe"
	"github.com/gfuhrmann/barvis/internal/render"
	"github.com/gfuhrmann/barvis/internal/spectrum"
)

func testMetrics(t *testing.T) *observe.Metrics {
	t.Helper()
	m, err := observe.NewMetrics(sdkmetric.NewMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m
}

func TestRender_RedrawsOnChange(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	r := render.New(&buf, testMetrics(t))
	ctx := context.Background()

	if err := r.Render(ctx, spectrum.Frame{0, 65535}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	first := buf.String()
	if first == "" {
		t.Fatal("first frame produced no output")
	}

	if err := r.Render(ctx, spectrum.Frame{65535, 0}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.String() == first {
		t.Error("changed frame should redraw")
	}
}

func TestRender_SkipsIdenticalFrame(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	r := render.New(&buf, testMetrics(t))
	ctx := context.Background()

	frame := spectrum.Frame{100, 200, 300}
	if err := r.Render(ctx, frame); err != nil {
		t.Fatalf("Render: %v", err)
	}
	before := buf.Len()

	// Same values in a fresh slice: equality is element-wise, not identity.
	if err := r.Render(ctx, spectrum.Frame{100, 200, 300}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Len() != before {
		t.Error("identical frame should not produce output")
	}
}

func TestRender_OneGlyphPerBar(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	r := render.New(&buf, testMetrics(t))

	if err := r.Render(context.Background(), spectrum.Frame{0, 32768, 65535}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	line := strings.TrimPrefix(buf.String(), "\r")
	if got := len([]rune(line)); got != 3 {
		t.Errorf("rendered %d glyphs, want 3: %q", got, line)
	}
}

func TestRun_ReturnsNilOnChannelClose(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	r := render.New(&buf, testMetrics(t))

	beats := 0
	r.OnFrame = func() { beats++ }

	frames := make(chan spectrum.Frame, 2)
	frames <- spectrum.Frame{1, 2}
	frames <- spectrum.Frame{3, 4}
	close(frames)

	if err := r.Run(context.Background(), frames); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if beats != 2 {
		t.Errorf("OnFrame called %d times, want 2", beats)
	}
}

func TestRun_ReturnsContextErrorOnCancel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	r := render.New(&buf, testMetrics(t))

	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan spectrum.Frame)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, frames) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
