package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/imgajeed76/pgaccess/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
