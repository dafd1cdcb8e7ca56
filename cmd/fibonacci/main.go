// Command fibonacci is the sample function deployed into the emulator.
//
// With IAC_ENVIRONMENT=local it serves itself through the local proxy on
// port 5000 instead of waiting for function invocations.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/fibonacci"
	"github.com/imamik/iacup/internal/logging"
	"github.com/imamik/iacup/internal/platform/awsclient"
	"github.com/imamik/iacup/internal/proxy"
)

const route = "fibonacci"

func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := run(logger); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := fibonacci.LoadSettings(nil)
	if err != nil {
		return err
	}

	creds := settings.SecretsCredentials(config.ResolveCredentials(""))
	cfg, err := awsclient.LoadConfig(ctx, creds)
	if err != nil {
		return err
	}
	handler := fibonacci.NewHandler(secretsmanager.NewFromConfig(cfg), settings.Environment, logger)

	if !settings.IsLocal() {
		lambda.StartWithOptions(handler.Handle, lambda.WithContext(ctx))
		return nil
	}

	router := proxy.NewRouter(proxy.Options{
		Route:   route,
		Invoker: proxy.HandlerFunc(handler.Handle),
		Logger:  logger,
	})
	return proxy.Serve(ctx, fmt.Sprintf("0.0.0.0:%d", proxy.DefaultPort), router, logger)
}
