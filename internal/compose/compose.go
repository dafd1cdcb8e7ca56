// Package compose drives the docker-compose lifecycle of the local
// environment: the emulator container and the service containers.
package compose

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/shell"
)

// DefaultProject is the compose project name all containers are grouped under.
const DefaultProject = "iac_example"

// EmulatorService is the compose service started before provisioning.
const EmulatorService = "localstack"

// BuildFunc provisions resources once the emulator is up.
type BuildFunc func(ctx context.Context) error

// Lifecycle recreates the compose environment for an environment profile.
type Lifecycle struct {
	runner      shell.Runner
	composeFile string
	environment config.Environment
	env         map[string]string
	project     string
	logger      *slog.Logger
}

// Option configures a Lifecycle.
type Option func(*Lifecycle)

// WithProject overrides the compose project name.
func WithProject(name string) Option {
	return func(l *Lifecycle) { l.project = name }
}

// WithLogger sets the logger used for step messages.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lifecycle) { l.logger = logger }
}

// New creates a Lifecycle. env is passed to every compose command.
func New(runner shell.Runner, composeFile string, environment config.Environment, env map[string]string, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		runner:      runner,
		composeFile: composeFile,
		environment: environment,
		env:         env,
		project:     DefaultProject,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Down stops the project and removes its volumes.
func (l *Lifecycle) Down(ctx context.Context) error {
	return l.run(ctx, "stopping containers", l.base("down", "-v"))
}

// Up tears the environment down, builds the images for the profile, starts
// the emulator, runs build and finally starts the remaining services.
func (l *Lifecycle) Up(ctx context.Context, build BuildFunc) error {
	if err := l.Down(ctx); err != nil {
		return err
	}
	if err := l.run(ctx, "building images", l.profiled("build")); err != nil {
		return err
	}
	if err := l.run(ctx, "starting emulator", l.profiled("up", "-d", EmulatorService)); err != nil {
		return err
	}
	if build != nil {
		if err := build(ctx); err != nil {
			return err
		}
	}
	return l.run(ctx, "starting services", l.profiled("up", "-d"))
}

func (l *Lifecycle) base(args ...string) string {
	return shell.Join(append([]string{"docker-compose", "-p", l.project}, args...)...)
}

func (l *Lifecycle) profiled(args ...string) string {
	head := []string{"docker-compose", "-p", l.project, "--profile", l.environment.String(), "-f", l.composeFile}
	return shell.Join(append(head, args...)...)
}

func (l *Lifecycle) run(ctx context.Context, step, command string) error {
	l.logger.Info(step, "command", command)
	if err := l.runner.Run(ctx, command, l.env); err != nil {
		return fmt.Errorf("compose %s failed: %w", step, err)
	}
	return nil
}
