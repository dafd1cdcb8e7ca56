package handlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/iacup/internal/compose"
	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/orchestration"
	"github.com/imamik/iacup/internal/proxy"
	"github.com/imamik/iacup/internal/stack"
	"github.com/imamik/iacup/internal/util/prerequisites"
)

type fakeProvisioner struct {
	env   config.Environment
	calls []string
	err   error
}

func (f *fakeProvisioner) Environment() config.Environment { return f.env }

func (f *fakeProvisioner) Plan() []string { return orchestration.PlanFor(f.env) }

func (f *fakeProvisioner) Build(context.Context) error {
	f.calls = append(f.calls, "build")
	return f.err
}

func (f *fakeProvisioner) CreateQueues(context.Context) error {
	f.calls = append(f.calls, "queues")
	return f.err
}

func (f *fakeProvisioner) CreateBuckets(context.Context) error {
	f.calls = append(f.calls, "buckets")
	return f.err
}

type fakeLifecycle struct {
	calls *[]string
	err   error
}

func (f *fakeLifecycle) Up(ctx context.Context, build compose.BuildFunc) error {
	*f.calls = append(*f.calls, "compose.up")
	if f.err != nil {
		return f.err
	}
	return build(ctx)
}

func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origSetup := setup
	origResolveRuntime := resolveRuntime
	origCheckPrereqs := checkPrereqs
	origNewLifecycle := newLifecycle
	origNewInvoker := newInvoker
	origServeProxy := serveProxy

	t.Cleanup(func() {
		setup = origSetup
		resolveRuntime = origResolveRuntime
		checkPrereqs = origCheckPrereqs
		newLifecycle = origNewLifecycle
		newInvoker = origNewInvoker
		serveProxy = origServeProxy
	})
}

func testRuntime(t *testing.T) *orchestration.Runtime {
	t.Helper()
	layout, err := config.NewLayout(t.TempDir())
	require.NoError(t, err)
	return &orchestration.Runtime{
		Layout:      layout,
		Vars:        config.Vars{},
		Credentials: config.DefaultCredentials(layout.LocalstackDir()),
		Stack:       stack.Default(),
		Logger:      slog.Default(),
	}
}

func stubSetup(t *testing.T, p *fakeProvisioner) {
	t.Helper()
	rt := testRuntime(t)
	setup = func(_ context.Context, opts orchestration.SetupOptions) (Provisioner, *orchestration.Runtime, error) {
		p.env = opts.Environment
		return p, rt, nil
	}
}

func stubPrereqs(t *testing.T, got *[]string, missing ...prerequisites.Tool) {
	t.Helper()
	checkPrereqs = func(toolchains ...string) *prerequisites.CheckResults {
		*got = append(*got, toolchains...)
		return &prerequisites.CheckResults{Missing: missing}
	}
}

func TestUp_RunsLifecycleAroundBuild(t *testing.T) {
	saveAndRestoreFactories(t)

	p := &fakeProvisioner{}
	stubSetup(t, p)
	var toolchains []string
	stubPrereqs(t, &toolchains)
	var lifecycleEnv config.Environment
	newLifecycle = func(_ *orchestration.Runtime, env config.Environment) Lifecycle {
		lifecycleEnv = env
		return &fakeLifecycle{calls: &p.calls}
	}

	err := Up(context.Background(), Options{Environment: config.EnvironmentStaging})
	require.NoError(t, err)

	assert.Equal(t, []string{"compose.up", "build"}, p.calls)
	assert.Equal(t, config.EnvironmentStaging, lifecycleEnv)
	assert.Equal(t, []string{"dotnet"}, toolchains)
}

func TestUp_SkipsBuildToolsWithoutFunctions(t *testing.T) {
	saveAndRestoreFactories(t)

	p := &fakeProvisioner{}
	stubSetup(t, p)
	var toolchains []string
	stubPrereqs(t, &toolchains)
	newLifecycle = func(*orchestration.Runtime, config.Environment) Lifecycle {
		return &fakeLifecycle{calls: &p.calls}
	}

	require.NoError(t, Up(context.Background(), Options{Environment: config.EnvironmentLocal}))
	assert.Empty(t, toolchains)
}

func TestUp_MissingTools(t *testing.T) {
	saveAndRestoreFactories(t)

	p := &fakeProvisioner{}
	stubSetup(t, p)
	var toolchains []string
	stubPrereqs(t, &toolchains, prerequisites.Tool{Name: "docker-compose", Required: true})
	newLifecycle = func(*orchestration.Runtime, config.Environment) Lifecycle {
		t.Fatal("lifecycle must not start")
		return nil
	}

	err := Up(context.Background(), Options{Environment: config.EnvironmentStaging})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docker-compose")
	assert.Empty(t, p.calls)
}

func TestUp_MissingToolsLogsFoundTools(t *testing.T) {
	saveAndRestoreFactories(t)

	p := &fakeProvisioner{}
	stubSetup(t, p)
	composeTool := prerequisites.Tool{Name: "iacup-test-compose", Required: true}
	dotnet := prerequisites.Tool{Name: "dotnet", Required: true, InstallURL: "https://dotnet.microsoft.com/download"}
	checkPrereqs = func(...string) *prerequisites.CheckResults {
		return &prerequisites.CheckResults{
			Results: []prerequisites.CheckResult{
				{Tool: composeTool, Found: true, Path: "/opt/bin/iacup-test-compose"},
				{Tool: dotnet},
			},
			Missing: []prerequisites.Tool{dotnet},
		}
	}
	newLifecycle = func(*orchestration.Runtime, config.Environment) Lifecycle {
		t.Fatal("lifecycle must not start")
		return nil
	}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := Up(context.Background(), Options{Environment: config.EnvironmentStaging, Logger: logger})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dotnet (https://dotnet.microsoft.com/download)")
	assert.Contains(t, buf.String(), "found tool")
	assert.Contains(t, buf.String(), "path=/opt/bin/iacup-test-compose")
	assert.NotContains(t, buf.String(), "tool=dotnet")
}

func TestUp_OptionalToolMissingIsNotFatal(t *testing.T) {
	saveAndRestoreFactories(t)

	p := &fakeProvisioner{}
	stubSetup(t, p)
	var toolchains []string
	stubPrereqs(t, &toolchains, prerequisites.Tool{Name: "docker", Required: false})
	newLifecycle = func(*orchestration.Runtime, config.Environment) Lifecycle {
		return &fakeLifecycle{calls: &p.calls}
	}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	require.NoError(t, Up(context.Background(), Options{Environment: config.EnvironmentStaging, Logger: logger}))
	assert.Equal(t, []string{"compose.up", "build"}, p.calls)
	assert.Contains(t, buf.String(), "optional tool not found")
	assert.Contains(t, buf.String(), "tool=docker")
}

func TestUp_LifecycleError(t *testing.T) {
	saveAndRestoreFactories(t)

	p := &fakeProvisioner{}
	stubSetup(t, p)
	var toolchains []string
	stubPrereqs(t, &toolchains)
	boom := errors.New("compose failed")
	newLifecycle = func(*orchestration.Runtime, config.Environment) Lifecycle {
		return &fakeLifecycle{calls: &p.calls, err: boom}
	}

	err := Up(context.Background(), Options{Environment: config.EnvironmentStaging})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"compose.up"}, p.calls)
}

func TestBuild(t *testing.T) {
	saveAndRestoreFactories(t)

	p := &fakeProvisioner{}
	stubSetup(t, p)

	require.NoError(t, Build(context.Background(), Options{Environment: config.EnvironmentProduction}))
	assert.Equal(t, []string{"build"}, p.calls)
	assert.Equal(t, config.EnvironmentProduction, p.env)
}

func TestBuild_Error(t *testing.T) {
	saveAndRestoreFactories(t)

	boom := errors.New("secrets phase failed: boom")
	p := &fakeProvisioner{err: boom}
	stubSetup(t, p)

	require.ErrorIs(t, Build(context.Background(), Options{Environment: config.EnvironmentStaging}), boom)
}

func TestBuild_SetupError(t *testing.T) {
	saveAndRestoreFactories(t)

	boom := errors.New("invalid stack")
	setup = func(context.Context, orchestration.SetupOptions) (Provisioner, *orchestration.Runtime, error) {
		return nil, nil, boom
	}

	require.ErrorIs(t, Build(context.Background(), Options{}), boom)
}

func TestQueuesAndBuckets(t *testing.T) {
	saveAndRestoreFactories(t)

	p := &fakeProvisioner{}
	stubSetup(t, p)

	require.NoError(t, Queues(context.Background(), Options{Environment: config.EnvironmentStaging}))
	require.NoError(t, Buckets(context.Background(), Options{Environment: config.EnvironmentStaging}))
	assert.Equal(t, []string{"queues", "buckets"}, p.calls)
}

func TestPlan_Staging(t *testing.T) {
	saveAndRestoreFactories(t)

	var out bytes.Buffer
	err := Plan(context.Background(), Options{
		Environment: config.EnvironmentStaging,
		Root:        t.TempDir(),
		Out:         &out,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "iacup plan: staging")
	assert.Contains(t, text, "1. secrets")
	assert.Contains(t, text, "2. functions")
	assert.Contains(t, text, "3. gateway")
	assert.Contains(t, text, "iac-example-fibonacci (dotnet)")
	assert.Contains(t, text, "prefix tpn")
	assert.NotContains(t, text, "outside the emulator")
}

func TestPlan_Local(t *testing.T) {
	saveAndRestoreFactories(t)

	var out bytes.Buffer
	err := Plan(context.Background(), Options{
		Environment: config.EnvironmentLocal,
		Root:        t.TempDir(),
		Out:         &out,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "1. secrets")
	assert.NotContains(t, text, "functions")
	assert.Contains(t, text, "outside the emulator")
}

func TestPlan_InvalidStackFile(t *testing.T) {
	saveAndRestoreFactories(t)

	root := t.TempDir()
	path := filepath.Join(root, "iacup.yaml")
	require.NoError(t, os.WriteFile(path, []byte("unknown_section: true\n"), 0o644))

	err := Plan(context.Background(), Options{
		Environment: config.EnvironmentStaging,
		Root:        root,
		StackFile:   path,
		Out:         &bytes.Buffer{},
	})
	require.Error(t, err)
}

func TestProxy_DefaultsToFirstFunction(t *testing.T) {
	saveAndRestoreFactories(t)

	resolveRuntime = func(orchestration.SetupOptions) (*orchestration.Runtime, error) {
		return testRuntime(t), nil
	}
	var invokedFunction string
	newInvoker = func(_ context.Context, _ config.Credentials, function string) (proxy.Invoker, error) {
		invokedFunction = function
		return proxy.HandlerFunc(nil), nil
	}
	var addr string
	serveProxy = func(_ context.Context, a string, h http.Handler, _ *slog.Logger) error {
		addr = a
		assert.NotNil(t, h)
		return nil
	}

	require.NoError(t, Proxy(context.Background(), Options{Environment: config.EnvironmentStaging}, ProxyOptions{}))
	assert.Equal(t, "iac-example-fibonacci", invokedFunction)
	assert.Equal(t, ":5000", addr)
}

func TestProxy_ExplicitOptions(t *testing.T) {
	saveAndRestoreFactories(t)

	resolveRuntime = func(orchestration.SetupOptions) (*orchestration.Runtime, error) {
		return testRuntime(t), nil
	}
	var invokedFunction string
	newInvoker = func(_ context.Context, _ config.Credentials, function string) (proxy.Invoker, error) {
		invokedFunction = function
		return proxy.HandlerFunc(nil), nil
	}
	var addr string
	serveProxy = func(_ context.Context, a string, _ http.Handler, _ *slog.Logger) error {
		addr = a
		return nil
	}

	err := Proxy(context.Background(), Options{}, ProxyOptions{Function: "other", Host: "127.0.0.1", Port: 8080})
	require.NoError(t, err)
	assert.Equal(t, "other", invokedFunction)
	assert.Equal(t, "127.0.0.1:8080", addr)
}

func TestProxy_NoFunctions(t *testing.T) {
	saveAndRestoreFactories(t)

	resolveRuntime = func(orchestration.SetupOptions) (*orchestration.Runtime, error) {
		rt := testRuntime(t)
		rt.Stack.Functions = nil
		return rt, nil
	}

	err := Proxy(context.Background(), Options{}, ProxyOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no function to proxy")
}
