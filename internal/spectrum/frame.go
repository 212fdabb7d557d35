// Package spectrum defines the frame data model shared by the analyzer
// pipeline and its consumers, plus the pure transforms applied to frames
// on their way to the renderer.
package spectrum

import "encoding/binary"

// BytesPerBar is the wire size of a single bar magnitude: one little-endian
// unsigned 16-bit integer.
const BytesPerBar = 2

// Frame holds one sampling instant's per-bar magnitudes in the range
// [0, 65535]. A frame's length is fixed at the pipeline's bar count and
// never changes after start. Frames are moved by value through channels;
// once sent, the producer must not touch the backing slice again.
type Frame []uint16

// DecodeFrame decodes buf into a Frame, interpreting every consecutive byte
// pair as a little-endian uint16. len(buf) must be a multiple of
// [BytesPerBar]; the caller reads exactly BytesPerBar×bars bytes per frame,
// so an odd length indicates a framing bug upstream.
func DecodeFrame(buf []byte) Frame {
	frame := make(Frame, len(buf)/BytesPerBar)
	for i := range frame {
		frame[i] = binary.LittleEndian.Uint16(buf[i*BytesPerBar:])
	}
	return frame
}

// AppendEncode appends the wire encoding of f to dst and returns the
// extended slice. It is the inverse of [DecodeFrame] and exists mainly for
// the fake analyzer and tests.
func AppendEncode(dst []byte, f Frame) []byte {
	for _, v := range f {
		dst = binary.LittleEndian.AppendUint16(dst, v)
	}
	return dst
}

// Equal reports whether f and other hold the same magnitudes in the same
// order. Consumers use this to skip redraws for unchanged frames.
func (f Frame) Equal(other Frame) bool {
	if len(f) != len(other) {
		return false
	}
	for i, v := range f {
		if v != other[i] {
			return false
		}
	}
	return true
}
