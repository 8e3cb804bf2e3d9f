// Command taskr is the CLI entrypoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nibzard/taskr/cmd"
)

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Run the CLI
	if err := cmd.Run(ctx, os.Args[1:]); err != nil {
		os.Exit(exitCode(ctx, err))
	}
}

// exitCode reports err and returns the process status for it. Usage errors
// have already been printed with the usage text.
func exitCode(ctx context.Context, err error) int {
	var usageErr *cmd.UsageError
	switch {
	case errors.As(err, &usageErr):
		return 2
	case ctx.Err() != nil:
		fmt.Fprintf(os.Stderr, "\nInterrupted\n")
		return 130
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}
