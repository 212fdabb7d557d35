// Command fakeanalyzer emits synthetic spectrum frames to stdout in the same
// wire format as the real analyzer: bar count consecutive little-endian
// uint16 magnitudes per record, at a fixed rate, with no framing bytes.
//
// It exists so the pipeline can be exercised without an audio stack:
//
//	barvis -config config.yaml   # with analyzer.binary set to fakeanalyzer
//
// Note fakeanalyzer accepts and ignores the -p config flag the pipeline
// passes to whatever binary it spawns.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gfuhrmann/barvis/internal/spectrum"
)

func main() {
	bars := flag.Int("bars", 20, "bars per frame")
	rate := flag.Int("rate", 60, "frames per second")
	count := flag.Int("frames", 0, "number of frames to emit, 0 for unlimited")
	flag.String("p", "", "analyzer config path (ignored)")
	flag.Parse()

	if *bars < 1 || *rate < 1 {
		fmt.Fprintln(os.Stderr, "fakeanalyzer: -bars and -rate must be >= 1")
		os.Exit(2)
	}

	ticker := time.NewTicker(time.Second / time.Duration(*rate))
	defer ticker.Stop()

	buf := make([]byte, 0, *bars*spectrum.BytesPerBar)
	for n := 0; *count == 0 || n < *count; n++ {
		buf = spectrum.AppendEncode(buf[:0], synthFrame(*bars, n))
		if _, err := os.Stdout.Write(buf); err != nil {
			// The reader went away; nothing sensible left to do.
			os.Exit(1)
		}
		<-ticker.C
	}
}

// synthFrame produces a travelling sine hump so the output visibly moves.
func synthFrame(bars, step int) spectrum.Frame {
	frame := make(spectrum.Frame, bars)
	for i := range frame {
		phase := float64(i)/float64(bars)*2*math.Pi + float64(step)*0.1
		frame[i] = uint16((math.Sin(phase) + 1) / 2 * math.MaxUint16)
	}
	return frame
}
