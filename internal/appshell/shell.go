// Package appshell runs a command under a signal-aware context.
package appshell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// RunFunc is the shape of app.RunContext.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main calls run with a context that is cancelled by the first SIGINT or
// SIGTERM and exits with its code. The running plans stop at their next
// step; a second signal exits at once.
func Main(run RunFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, ok := <-sigs; !ok {
			return
		}
		fmt.Fprintln(os.Stderr, "interrupted; stopping after the current step (interrupt again to quit)")
		cancel()
		if _, ok := <-sigs; ok {
			os.Exit(130)
		}
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	// Normalize cancellation exit code.
	if ctx.Err() != nil && code == 0 {
		code = 130
	}
	signal.Stop(sigs)
	cancel()
	os.Exit(code)
}
