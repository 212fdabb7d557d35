// Package render is the pipeline's consumer: a terminal sink that receives
// smoothed spectrum frames and redraws a bar meter only when the frame
// actually changed. The diffing responsibility sits here, on the consumer
// side — the pipeline delivers every frame it produces.
package render

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/gfuhrmann/barvis/internal/observe"
	"github.com/gfuhrmann/barvis/internal/spectrum"
)

// levels are the glyphs for one bar, lowest to highest magnitude.
var levels = []rune(" ▁▂▃▄▅▆▇█")

// Renderer draws frames as a single line of block glyphs, one rune per bar,
// rewriting the line in place with a carriage return. Not safe for
// concurrent use; the consumer loop is the single caller.
type Renderer struct {
	w       io.Writer
	last    spectrum.Frame
	metrics *observe.Metrics

	// OnFrame, when non-nil, is called for every received frame before the
	// equality check. Used to feed the readiness heartbeat.
	OnFrame func()
}

// New creates a Renderer writing to w. metrics may be nil, in which case
// [observe.DefaultMetrics] is used.
func New(w io.Writer, metrics *observe.Metrics) *Renderer {
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	return &Renderer{w: w, metrics: metrics}
}

// Run receives frames until the channel closes or ctx is cancelled. Channel
// close is the pipeline's shutdown signal and returns nil; cancellation
// returns ctx.Err().
func (r *Renderer) Run(ctx context.Context, frames <-chan spectrum.Frame) error {
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				fmt.Fprintln(r.w)
				return nil
			}
			if r.OnFrame != nil {
				r.OnFrame()
			}
			if err := r.Render(ctx, frame); err != nil {
				return err
			}
		case <-ctx.Done():
			fmt.Fprintln(r.w)
			return ctx.Err()
		}
	}
}

// Render draws frame if it differs from the previously rendered one.
// Identical frames are counted but produce no output.
func (r *Renderer) Render(ctx context.Context, frame spectrum.Frame) error {
	if frame.Equal(r.last) {
		r.metrics.RendererSkips.Add(ctx, 1)
		return nil
	}
	// Ownership of frame transferred on receive; keeping the reference is safe.
	r.last = frame
	r.metrics.RendererRedraws.Add(ctx, 1)

	line := make([]rune, len(frame))
	for i, v := range frame {
		line[i] = glyph(v)
	}
	_, err := fmt.Fprintf(r.w, "\r%s", string(line))
	return err
}

// glyph maps a magnitude in [0, 65535] onto the block glyph scale.
func glyph(v uint16) rune {
	idx := int(v) * (len(levels) - 1) / math.MaxUint16
	return levels[idx]
}
