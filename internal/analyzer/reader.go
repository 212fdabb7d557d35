package analyzer

import (
	"fmt"
	"io"

	"github.com/gfuhrmann/barvis/internal/spectrum"
)

// FrameReader frames an analyzer output stream into spectrum frames. Each
// call to Next reads exactly bars × [spectrum.BytesPerBar] bytes; a short
// read means the analyzer died or the stream was torn down mid-record, and
// is returned as an error rather than a truncated frame.
//
// FrameReader is not safe for concurrent use; the pipeline's single worker
// goroutine owns it.
type FrameReader struct {
	r   io.Reader
	buf []byte
}

// NewFrameReader wraps r for the given bar count. bars must be >= 1.
func NewFrameReader(r io.Reader, bars int) *FrameReader {
	return &FrameReader{
		r:   r,
		buf: make([]byte, bars*spectrum.BytesPerBar),
	}
}

// Next blocks until one full record has been read and returns it decoded.
// The returned frame owns its backing array; the internal read buffer is
// reused across calls.
func (fr *FrameReader) Next() (spectrum.Frame, error) {
	if _, err := io.ReadFull(fr.r, fr.buf); err != nil {
		return nil, fmt.Errorf("analyzer: read frame: %w", err)
	}
	return spectrum.DecodeFrame(fr.buf), nil
}
