package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// version is set with -ldflags at release time.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return newCLI(os.Stdout, os.Stderr).execute(ctx, os.Args[1:])
}
