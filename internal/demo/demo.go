// Package demo holds the self-contained concurrency and dispatch examples
// runnable through the playground command. Each demo is independent, runs to
// completion, and writes its output to the provided writer.
package demo

import (
	"context"
	"fmt"
	"io"
	"slices"
)

// Runner is a single runnable demo.
type Runner func(ctx context.Context, w io.Writer) error

// demos maps playground names to their entry points.
var demos = map[string]Runner{
	"atomic-counter":  Counter,
	"bounded-channel": Channel,
	"widgets":         Widgets,
}

// Names returns the available demo names, sorted.
func Names() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Run executes the demo registered under name.
func Run(ctx context.Context, name string, w io.Writer) error {
	run, ok := demos[name]
	if !ok {
		return fmt.Errorf("demo: unknown demo %q; available: %v", name, Names())
	}
	return run(ctx, w)
}
