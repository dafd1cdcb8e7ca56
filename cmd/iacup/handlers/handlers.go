// Package handlers implements the business logic for CLI commands.
//
// Handlers are called by the command definitions in the commands package and
// can be tested without the CLI framework by swapping the factory variables.
package handlers

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/imamik/iacup/internal/compose"
	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/orchestration"
	"github.com/imamik/iacup/internal/platform/awsclient"
	"github.com/imamik/iacup/internal/proxy"
	"github.com/imamik/iacup/internal/util/prerequisites"
)

// Options are the global settings shared by all commands.
type Options struct {
	Environment config.Environment
	// Root is the project directory holding the infrastructure directory.
	Root      string
	StackFile string
	Logger    *slog.Logger
	Out       io.Writer
}

func (o Options) setupOptions() orchestration.SetupOptions {
	return orchestration.SetupOptions{
		Environment: o.Environment,
		Root:        o.Root,
		StackFile:   o.StackFile,
		Logger:      o.logger(),
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// Provisioner matches orchestration.Orchestrator.
type Provisioner interface {
	Environment() config.Environment
	Plan() []string
	Build(ctx context.Context) error
	CreateQueues(ctx context.Context) error
	CreateBuckets(ctx context.Context) error
}

// Lifecycle matches compose.Lifecycle.
type Lifecycle interface {
	Up(ctx context.Context, build compose.BuildFunc) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// setup resolves the runtime and creates the provisioner of one invocation.
	setup = func(ctx context.Context, opts orchestration.SetupOptions) (Provisioner, *orchestration.Runtime, error) {
		orch, rt, err := orchestration.Setup(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		return orch, rt, nil
	}

	// resolveRuntime resolves the runtime without creating service clients.
	resolveRuntime = orchestration.Resolve

	// checkPrereqs checks the tools needed by the environment lifecycle.
	checkPrereqs = prerequisites.CheckForUp

	// newLifecycle creates the compose lifecycle of the environment.
	newLifecycle = func(rt *orchestration.Runtime, env config.Environment) Lifecycle {
		return compose.New(rt.Runner, rt.Layout.ComposeFile(), env, rt.Vars, compose.WithLogger(rt.Logger))
	}

	// newInvoker creates the invoker of a deployed function.
	newInvoker = func(ctx context.Context, creds config.Credentials, function string) (proxy.Invoker, error) {
		cfg, err := awsclient.LoadConfig(ctx, creds)
		if err != nil {
			return nil, err
		}
		return proxy.NewFunctionInvoker(lambda.NewFromConfig(cfg), function), nil
	}

	// serveProxy serves the proxy until the context is cancelled.
	serveProxy = proxy.Serve
)

// Up recreates the emulation environment and provisions it.
//
// The compose project is torn down, images are built for the environment
// profile, the emulator is started, resources are provisioned and finally the
// remaining services are started.
func Up(ctx context.Context, opts Options) error {
	orch, rt, err := setup(ctx, opts.setupOptions())
	if err != nil {
		return err
	}

	var toolchains []string
	if slices.Contains(orch.Plan(), orchestration.PhaseFunctions) {
		toolchains = rt.Stack.Toolchains()
	}
	results := checkPrereqs(toolchains...)
	if results.HasErrors() {
		for _, r := range results.WithVersions().Results {
			if r.Found {
				opts.logger().Info("found tool", "tool", r.Tool.Name, "path", r.Path, "version", r.Version)
			}
		}
		return results.Error()
	}
	for _, tool := range results.OptionalMissing() {
		opts.logger().Warn("optional tool not found", "tool", tool.Name, "purpose", tool.Description)
	}

	if err := newLifecycle(rt, orch.Environment()).Up(ctx, orch.Build); err != nil {
		return err
	}

	opts.logger().Info("environment is up", "environment", orch.Environment().String())
	return nil
}

// Build provisions the environment's resources into a running emulator.
func Build(ctx context.Context, opts Options) error {
	orch, _, err := setup(ctx, opts.setupOptions())
	if err != nil {
		return err
	}
	if err := orch.Build(ctx); err != nil {
		return err
	}
	opts.logger().Info("build complete", "environment", orch.Environment().String())
	return nil
}

// Queues creates the stack's queues and binds them to their functions.
func Queues(ctx context.Context, opts Options) error {
	orch, _, err := setup(ctx, opts.setupOptions())
	if err != nil {
		return err
	}
	return orch.CreateQueues(ctx)
}

// Buckets ensures the stack's buckets exist.
func Buckets(ctx context.Context, opts Options) error {
	orch, _, err := setup(ctx, opts.setupOptions())
	if err != nil {
		return err
	}
	return orch.CreateBuckets(ctx)
}
