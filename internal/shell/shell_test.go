package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpreter_Run_Output(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	sh := New(WithOutput(&stdout, nil), WithBaseEnv(func() []string { return nil }))

	err := sh.Run(context.Background(), "echo hello", nil)

	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout.String())
}

func TestInterpreter_Run_EnvOverlay(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	sh := New(
		WithOutput(&stdout, nil),
		WithBaseEnv(func() []string { return []string{"GREETING=base", "KEEP=yes"} }),
	)

	err := sh.Run(context.Background(), `echo "$GREETING $KEEP $IAC_ENVIRONMENT"`, map[string]string{
		"GREETING":        "overlay",
		"IAC_ENVIRONMENT": "staging",
	})

	require.NoError(t, err)
	assert.Equal(t, "overlay yes staging\n", stdout.String())
}

func TestInterpreter_Run_NonZeroExit(t *testing.T) {
	t.Parallel()

	sh := New()
	err := sh.Run(context.Background(), "exit 3", nil)

	require.Error(t, err)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "exit 3", exitErr.Command)
	assert.Contains(t, err.Error(), "exited with status 3")
}

func TestInterpreter_Run_ParseError(t *testing.T) {
	t.Parallel()

	sh := New()
	err := sh.Run(context.Background(), `echo "unterminated`, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse command")
}

func TestInterpreter_Run_Dir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout bytes.Buffer
	sh := New(WithDir(dir), WithOutput(&stdout, nil))

	require.NoError(t, sh.Run(context.Background(), "pwd", nil))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(stdout.String()), strings.TrimPrefix(dir, "/private")))
}

func TestInterpreter_Environ(t *testing.T) {
	t.Parallel()

	sh := New(WithBaseEnv(func() []string { return []string{"A=1", "B=2"} }))

	assert.Equal(t, []string{"A=1", "B=2"}, sh.environ(nil))
	assert.Equal(t, []string{"A=1", "B=3", "C=4"}, sh.environ(map[string]string{"C": "4", "B": "3"}))
}

func TestJoin(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "dotnet publish /src/app -c Release", Join("dotnet", "publish", "/src/app", "-c", "Release"))
	assert.Equal(t, "go build -ldflags '-s -w'", Join("go", "build", "-ldflags", "-s -w"))
	assert.Equal(t, "echo ''", Join("echo", ""))
}

func TestJoin_RoundTrip(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	i := New(WithOutput(&out, io.Discard))

	require.NoError(t, i.Run(context.Background(), Join("echo", "it's a $HOME path"), nil))
	assert.Equal(t, "it's a $HOME path\n", out.String())
}

type flushRecorder struct {
	bytes.Buffer
	flushed int
}

func (f *flushRecorder) Flush() { f.flushed++ }

func TestInterpreter_Run_FlushesOutput(t *testing.T) {
	t.Parallel()
	out := &flushRecorder{}
	i := New(WithOutput(out, io.Discard))

	require.NoError(t, i.Run(context.Background(), "printf partial", nil))
	assert.Equal(t, "partial", out.String())
	assert.Equal(t, 1, out.flushed)
}
