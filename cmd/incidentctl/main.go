// Command incidentctl is a command-line client for the incident tracker.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/bissquit/incident-tracker/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
