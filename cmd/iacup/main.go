// Package main is the entry point for the iacup CLI.
//
// iacup provisions the example services into a local cloud emulator:
// secrets, object storage buckets, FIFO queues with their event-source
// mappings, functions and the HTTP gateway in front of them. Every step is
// idempotent, so commands can be re-run against a running emulator.
//
// Commands: up, build, queues, buckets, plan, proxy, version.
//
// For detailed usage information, run:
//
//	iacup --help
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/iacup/cmd/iacup/commands"
	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().ExecuteContext(ctx)
	stop()

	if err != nil {
		logger := logging.NewLogger(os.Stderr, logging.ParseLevel(os.Getenv(config.EnvLogLevel)))
		logger.Error(err.Error())
		os.Exit(1)
	}
}
