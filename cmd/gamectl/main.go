package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"readinggame/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Run(ctx, os.Stdout, os.Args[1:], cli.BuildInfo{Version: version, Commit: commit})
	if err != nil {
		fmt.Fprintf(os.Stderr, "gamectl: %v\n", err)
		stop()
		os.Exit(1)
	}
}
