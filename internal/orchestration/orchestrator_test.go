package orchestration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/packaging"
	"github.com/imamik/iacup/internal/stack"
	itesting "github.com/imamik/iacup/internal/testing"
)

type fakePackager struct {
	log *itesting.CallLog
	err error
}

func (f *fakePackager) BuildAndPackage(_ context.Context, _ packaging.Build, outputZip string) error {
	f.log.Record("package")
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outputZip, []byte("zip"), 0o644)
}

type fixture struct {
	log       *itesting.CallLog
	clients   Clients
	functions *itesting.FakeLambda
	secrets   *itesting.FakeSecretsManager
	gateway   *itesting.FakeAPIGateway
	queues    *itesting.FakeSQS
	buckets   *itesting.FakeBuckets
	packager  *fakePackager
	layout    config.Layout
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := itesting.NewCallLog()
	f := &fixture{
		log:       log,
		functions: &itesting.FakeLambda{Log: log},
		secrets:   &itesting.FakeSecretsManager{Log: log},
		gateway:   &itesting.FakeAPIGateway{Log: log},
		queues:    &itesting.FakeSQS{Log: log},
		buckets:   &itesting.FakeBuckets{Log: log},
		packager:  &fakePackager{log: log},
	}
	f.clients = Clients{
		Buckets:   f.buckets,
		Functions: f.functions,
		Queues:    f.queues,
		Secrets:   f.secrets,
		Gateway:   f.gateway,
	}

	layout, err := config.NewLayout(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(layout.LocalstackDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(layout.LocalstackDir(), config.SecretsFileName),
		[]byte(`{"secret_example": "s3cr3t"}`), 0o600))
	require.NoError(t, os.WriteFile(layout.GatewayDefinition(stack.Default().Gateway.Definition),
		[]byte(`{"swagger": "2.0"}`), 0o644))
	f.layout = layout
	return f
}

func (f *fixture) orchestrator(env config.Environment, vars config.Vars) *Orchestrator {
	return New(Options{
		Environment: env,
		Layout:      f.layout,
		Credentials: config.ResolveCredentialsFrom(f.layout.LocalstackDir(), vars),
		Vars:        vars,
		Stack:       stack.Default(),
	}, f.clients, f.packager)
}

func TestBuild_Staging(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	require.NoError(t, f.orchestrator(config.EnvironmentStaging, nil).Build(itesting.TestContext(t)))

	assert.Equal(t, []string{
		"secretsmanager.CreateSecret",
		"package",
		"lambda.CreateFunction",
		"lambda.AddPermission",
		"apigateway.GetRestApis",
		"apigateway.CreateRestApi",
		"apigateway.PutRestApi",
		"apigateway.CreateDeployment",
	}, f.log.Calls())

	assert.Equal(t, `"s3cr3t"`, aws.ToString(f.secrets.Secrets[0].SecretString))
	assert.Equal(t, "staging", f.functions.CreateFunctions[0].Environment.Variables["IAC_ENVIRONMENT"])
	assert.Equal(t, "tpn-staging", aws.ToString(f.gateway.Created[0].Name))
	assert.Equal(t, "staging", aws.ToString(f.gateway.Deployments[0].StageName))
}

func TestBuild_SecretsOnlyEnvironments(t *testing.T) {
	t.Parallel()
	for _, env := range []config.Environment{config.EnvironmentLocal, config.EnvironmentProduction} {
		t.Run(env.String(), func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			require.NoError(t, f.orchestrator(env, nil).Build(itesting.TestContext(t)))

			assert.Equal(t, []string{"secretsmanager.CreateSecret"}, f.log.Calls())
			assert.Empty(t, f.functions.CreateFunctions)
			assert.Empty(t, f.gateway.Created)
		})
	}
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := map[string]bool{}
	f.secrets.CreateSecretFunc = func(in *secretsmanager.CreateSecretInput) (*secretsmanager.CreateSecretOutput, error) {
		if created[aws.ToString(in.Name)] {
			return nil, itesting.APIError("ResourceExistsException")
		}
		created[aws.ToString(in.Name)] = true
		return &secretsmanager.CreateSecretOutput{}, nil
	}
	orch := f.orchestrator(config.EnvironmentLocal, nil)

	require.NoError(t, orch.Build(itesting.TestContext(t)))
	require.NoError(t, orch.Build(itesting.TestContext(t)))
	assert.Len(t, f.secrets.Secrets, 2)
}

func TestBuild_PackagingFailureStopsStaging(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.packager.err = errors.New("publish dir missing")

	err := f.orchestrator(config.EnvironmentStaging, nil).Build(itesting.TestContext(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "functions phase failed")
	assert.Equal(t, []string{"secretsmanager.CreateSecret", "package"}, f.log.Calls())
}

func TestBuild_InvalidFunctionFailsAfterSecrets(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	orch := f.orchestrator(config.EnvironmentStaging, nil)
	orch.opts.Stack.Functions[0].MemoryMB = 1

	err := orch.Build(itesting.TestContext(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "functions phase failed")
	assert.Contains(t, err.Error(), "invalid function")
	assert.Equal(t, []string{"secretsmanager.CreateSecret"}, f.log.Calls())
	assert.Len(t, f.secrets.Secrets, 1)
}

func TestBuild_UnknownEnvironment(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	err := f.orchestrator("qa", nil).Build(itesting.TestContext(t))

	require.ErrorIs(t, err, config.ErrUnknownEnvironment)
	assert.Empty(t, f.log.Calls())
}

func TestCreateQueues(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	vars := config.Vars{
		"REGULATION_SQS_CODE_NAME": "regulation.fifo",
		"DDDPARSER_SQS_CODE_NAME":  "ddd-parser.fifo",
	}

	require.NoError(t, f.orchestrator(config.EnvironmentStaging, vars).CreateQueues(itesting.TestContext(t)))

	assert.Equal(t, []string{
		"sqs.CreateQueue", "lambda.CreateEventSourceMapping",
		"sqs.CreateQueue", "lambda.CreateEventSourceMapping",
	}, f.log.Calls())
	assert.Equal(t, "tpn-regulation", aws.ToString(f.functions.Mappings[0].FunctionName))
	assert.Equal(t, "arn:aws:sqs:eu-west-1:000000000000:ddd-parser.fifo", aws.ToString(f.functions.Mappings[1].EventSourceArn))
	assert.Equal(t, "600", f.queues.Queues[1].Attributes["VisibilityTimeout"])
}

func TestCreateQueues_MissingNameVariable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	err := f.orchestrator(config.EnvironmentStaging, nil).CreateQueues(itesting.TestContext(t))

	require.Error(t, err)
	assert.Empty(t, f.log.Calls())
}

func TestCreateBuckets(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	orch := f.orchestrator(config.EnvironmentStaging, nil)
	orch.opts.Stack.Buckets = []string{"artifacts", "reports"}

	require.NoError(t, orch.CreateBuckets(itesting.TestContext(t)))
	assert.Equal(t, []string{"artifacts", "reports"}, f.buckets.Created)
}

func TestPlan(t *testing.T) {
	t.Parallel()
	tests := []struct {
		env  config.Environment
		want []string
	}{
		{env: config.EnvironmentLocal, want: []string{"secrets"}},
		{env: config.EnvironmentStaging, want: []string{"secrets", "functions", "gateway"}},
		{env: config.EnvironmentProduction, want: []string{"secrets"}},
		{env: "qa", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.env.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PlanFor(tt.env))
		})
	}
}

func TestPlanFor_ReturnsCopy(t *testing.T) {
	t.Parallel()
	plan := PlanFor(config.EnvironmentStaging)
	plan[0] = "mutated"
	assert.Equal(t, PhaseSecrets, PlanFor(config.EnvironmentStaging)[0])
}
