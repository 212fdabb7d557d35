package demo

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Counter demonstrates lock-free shared state: two goroutines mutate one
// atomic counter concurrently — one adding in large steps, one subtracting
// in small ones — and the final value is read after both finish.
func Counter(ctx context.Context, w io.Writer) error {
	total, err := RunCounter(ctx, 10, 10)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "counter: %d\n", total)
	return nil
}

// RunCounter performs adds increments of +100 and subs increments of -1 from
// two competing goroutines and returns the final counter value. Exposed
// separately so tests can assert the arithmetic without parsing output.
func RunCounter(ctx context.Context, adds, subs int) (int64, error) {
	var counter atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for i := 0; i < adds; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			counter.Add(100)
		}
		return nil
	})
	g.Go(func() error {
		for i := 0; i < subs; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			counter.Add(-1)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return counter.Load(), nil
}
