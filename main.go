package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/swipestats/migrator/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx, version+" ("+commit+")"); err != nil {
		stop()
		os.Exit(1)
	}
}
