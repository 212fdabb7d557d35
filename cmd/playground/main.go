// Command playground runs one of the self-contained demos by name:
//
//	playground atomic-counter
//	playground bounded-channel
//	playground widgets
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gfuhrmann/barvis/internal/demo"
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: playground <demo-name>\navailable demos: %s\n",
			strings.Join(demo.Names(), ", "))
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := demo.Run(ctx, flag.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "playground: %v\n", err)
		return 1
	}
	return 0
}
