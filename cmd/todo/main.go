// Command todo is a terminal to-do list.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nhle/todo/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, version, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}
