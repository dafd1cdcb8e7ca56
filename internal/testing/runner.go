package testing

import (
	"context"
	"maps"
	"sync"
)

// Command is one invocation recorded by FakeRunner.
type Command struct {
	Line string
	Env  map[string]string
}

// FakeRunner implements shell.Runner without executing anything.
type FakeRunner struct {
	Log *CallLog

	// RunFunc, when set, decides the outcome of each command.
	RunFunc func(command string, env map[string]string) error

	mu       sync.Mutex
	Commands []Command
}

// Run records the command and returns the RunFunc result.
func (f *FakeRunner) Run(_ context.Context, command string, env map[string]string) error {
	f.Log.Record(command)
	f.mu.Lock()
	f.Commands = append(f.Commands, Command{Line: command, Env: maps.Clone(env)})
	f.mu.Unlock()
	if f.RunFunc != nil {
		return f.RunFunc(command, env)
	}
	return nil
}

// Lines returns the recorded command lines in order.
func (f *FakeRunner) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.Commands))
	for i, c := range f.Commands {
		lines[i] = c.Line
	}
	return lines
}
