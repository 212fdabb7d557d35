package spectrum

// smoothWindow is the nominal moving-average window size. The window is
// centered on each bar and clipped at the frame boundaries, so the first and
// last bars average over two elements instead of three.
const smoothWindow = 3

// Smooth returns a new frame where each bar is the truncating integer
// average of a centered window over raw. The window shrinks at the edges
// rather than padding or wrapping; downstream visual calibration depends on
// that edge behaviour, so it must not be "fixed" to a padded average.
// A single-bar frame is returned as a copy, unchanged.
func Smooth(raw Frame) Frame {
	n := len(raw)
	smoothed := make(Frame, n)
	for i := range raw {
		start := max(0, i-smoothWindow/2)
		end := min(n, i+smoothWindow/2+1)

		var sum uint32
		for _, v := range raw[start:end] {
			sum += uint32(v)
		}
		smoothed[i] = uint16(sum / uint32(end-start))
	}
	return smoothed
}
