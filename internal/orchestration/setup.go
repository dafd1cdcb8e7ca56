package orchestration

import (
	"context"
	"log/slog"

	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/logging"
	"github.com/imamik/iacup/internal/packaging"
	"github.com/imamik/iacup/internal/platform/awsclient"
	"github.com/imamik/iacup/internal/shell"
	"github.com/imamik/iacup/internal/stack"
)

// SetupOptions locate the project and select the environment of a run.
type SetupOptions struct {
	Environment config.Environment
	// Root is the project directory; it holds the infrastructure directory.
	Root string
	// StackFile overrides the default stack file location.
	StackFile string
	Logger    *slog.Logger
}

// Runtime is everything one invocation needs, resolved from the filesystem
// and the process environment.
type Runtime struct {
	Layout      config.Layout
	Vars        config.Vars
	Credentials config.Credentials
	Stack       stack.Stack
	Runner      shell.Runner
	Logger      *slog.Logger
}

// Resolve loads the layout, the .env-merged environment, the credentials and
// the stack without contacting the emulator.
func Resolve(opts SetupOptions) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	layout, err := config.NewLayout(opts.Root)
	if err != nil {
		return nil, err
	}

	vars, err := config.LoadEnv(layout.DotEnvFile(), opts.Environment)
	if err != nil {
		return nil, err
	}

	stackFile := opts.StackFile
	if stackFile == "" {
		stackFile = layout.StackFile()
	}
	st, err := stack.Load(stackFile)
	if err != nil {
		return nil, err
	}

	runner := shell.New(
		shell.WithDir(layout.Root),
		shell.WithBaseEnv(vars.Environ),
		shell.WithOutput(
			logging.NewWriter(logger, "stream", "stdout"),
			logging.NewLevelWriter(logger, slog.LevelWarn, "stream", "stderr"),
		),
	)

	return &Runtime{
		Layout:      layout,
		Vars:        vars,
		Credentials: config.ResolveCredentialsFrom(layout.LocalstackDir(), vars),
		Stack:       st,
		Runner:      runner,
		Logger:      logger,
	}, nil
}

// Setup resolves the runtime and creates an orchestrator with fresh service
// clients for this invocation.
func Setup(ctx context.Context, opts SetupOptions) (*Orchestrator, *Runtime, error) {
	rt, err := Resolve(opts)
	if err != nil {
		return nil, nil, err
	}

	clients, err := awsclient.NewClients(ctx, rt.Credentials)
	if err != nil {
		return nil, nil, err
	}

	orch := New(Options{
		Environment: opts.Environment,
		Layout:      rt.Layout,
		Credentials: rt.Credentials,
		Vars:        rt.Vars,
		Stack:       rt.Stack,
		Logger:      rt.Logger,
	}, ClientsFromAWS(clients), packaging.NewPipeline(rt.Runner, rt.Layout.PublishDir(), rt.Logger))

	return orch, rt, nil
}
