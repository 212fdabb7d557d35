package resilience

import (
	"context"
	"time"
)

// Backoff produces an exponential delay schedule: Initial, 2×Initial,
// 4×Initial, … capped at Max. Not safe for concurrent use; each supervised
// loop owns its own Backoff.
type Backoff struct {
	// Initial is the first delay. Default: 500ms.
	Initial time.Duration

	// Max caps the delay. Default: 10s.
	Max time.Duration

	next time.Duration
}

// Next returns the current delay and advances the schedule.
func (b *Backoff) Next() time.Duration {
	if b.Initial <= 0 {
		b.Initial = 500 * time.Millisecond
	}
	if b.Max <= 0 {
		b.Max = 10 * time.Second
	}
	if b.next == 0 {
		b.next = b.Initial
	}
	d := b.next
	b.next *= 2
	if b.next > b.Max {
		b.next = b.Max
	}
	return d
}

// Reset restarts the schedule from Initial. Call after a sustained period of
// healthy operation.
func (b *Backoff) Reset() {
	b.next = 0
}

// Sleep blocks for d or until ctx is cancelled, returning ctx.Err() in the
// latter case.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
