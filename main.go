// Command wavegraph animates waves spreading across a proximity graph of
// drifting points.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/wavegraph/internal/must"
)

func main() {
	// Cancel the context on SIGINT/SIGTERM so loops can shut down cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Code in this package panics with an error to exit.
	defer func() {
		if r := recover(); r != nil {
			cancel()
			fmt.Fprintln(os.Stderr, r)
			if *panicOnErr {
				panic(r)
			}
			os.Exit(1)
		}
	}()
	must.Must(rootCmd.ExecuteContext(ctx))
}
