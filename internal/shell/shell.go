// Package shell runs command strings through an embedded POSIX shell
// interpreter, so the same command line works on every host platform.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Runner executes a shell command string with an optional environment overlay.
// A non-zero exit status is returned as an *ExitError.
type Runner interface {
	Run(ctx context.Context, command string, env map[string]string) error
}

// ExitError reports a command that exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.Code)
}

// Interpreter is a Runner backed by mvdan.cc/sh.
type Interpreter struct {
	dir     string
	stdout  io.Writer
	stderr  io.Writer
	baseEnv func() []string
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithDir sets the working directory commands run in.
func WithDir(dir string) Option {
	return func(i *Interpreter) { i.dir = dir }
}

// WithOutput sets the writers receiving command stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(i *Interpreter) {
		i.stdout = stdout
		i.stderr = stderr
	}
}

// WithBaseEnv replaces the process environment as the base the overlay is
// applied to.
func WithBaseEnv(base func() []string) Option {
	return func(i *Interpreter) { i.baseEnv = base }
}

// New creates an Interpreter. By default commands inherit the process
// environment and their output is discarded.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		stdout:  io.Discard,
		stderr:  io.Discard,
		baseEnv: os.Environ,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run parses and executes command.
func (i *Interpreter) Run(ctx context.Context, command string, env map[string]string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "command")
	if err != nil {
		return fmt.Errorf("failed to parse command %q: %w", command, err)
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(i.environ(env)...)),
		interp.StdIO(nil, i.stdout, i.stderr),
	}
	if i.dir != "" {
		opts = append(opts, interp.Dir(i.dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	defer i.flush()

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ExitError{Command: command, Code: int(status)}
		}
		return fmt.Errorf("failed to run command %q: %w", command, err)
	}
	return nil
}

// flusher is implemented by writers buffering partial lines.
type flusher interface {
	Flush()
}

func (i *Interpreter) flush() {
	for _, w := range []io.Writer{i.stdout, i.stderr} {
		if f, ok := w.(flusher); ok {
			f.Flush()
		}
	}
}

// environ returns the base environment with overlay applied on top.
func (i *Interpreter) environ(overlay map[string]string) []string {
	base := i.baseEnv()
	if len(overlay) == 0 {
		return base
	}

	out := make([]string, 0, len(base)+len(overlay))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, replaced := overlay[key]; replaced {
			continue
		}
		out = append(out, kv)
	}

	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+overlay[k])
	}
	return out
}

// Join quotes each argument where needed and joins them into one command line.
func Join(args ...string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		q, err := syntax.Quote(arg, syntax.LangPOSIX)
		if err != nil {
			// Quote only fails on NUL bytes, which no shell word can carry.
			q = arg
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}
