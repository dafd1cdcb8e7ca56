package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/provisioning"
	itesting "github.com/imamik/iacup/internal/testing"
)

func writeSecrets(t *testing.T, ctx *provisioning.Context, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.SecretsFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	ctx.Credentials.SecretsFile = path
}

func TestProvisioner_Name(t *testing.T) {
	t.Parallel()
	var phase provisioning.Phase = NewProvisioner(&itesting.FakeSecretsManager{})
	assert.Equal(t, "secrets", phase.Name())
}

func TestCreateSecrets_Payloads(t *testing.T) {
	t.Parallel()
	client := &itesting.FakeSecretsManager{}
	ctx := itesting.NewProvisioningContext(t, config.EnvironmentStaging)
	writeSecrets(t, ctx, `{"a": {"x": 1}, "b": "plain"}`)

	require.NoError(t, NewProvisioner(client).CreateSecrets(ctx))

	require.Len(t, client.Secrets, 2)
	assert.Equal(t, "a", aws.ToString(client.Secrets[0].Name))
	assert.Equal(t, `{"x": 1}`, aws.ToString(client.Secrets[0].SecretString))
	assert.Equal(t, "b", aws.ToString(client.Secrets[1].Name))
	assert.Equal(t, `"plain"`, aws.ToString(client.Secrets[1].SecretString))
	assert.Equal(t, []string{"a", "b"}, ctx.State.Secrets)
}

func TestCreateSecrets_MissingFileIsSkipped(t *testing.T) {
	t.Parallel()
	client := &itesting.FakeSecretsManager{}
	ctx := itesting.NewProvisioningContext(t, config.EnvironmentStaging)
	ctx.Credentials.SecretsFile = filepath.Join(t.TempDir(), "absent.json")

	require.NoError(t, NewProvisioner(client).CreateSecrets(ctx))

	assert.Empty(t, client.Secrets)
	messages := itesting.Recorder(ctx).Messages()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "skipping secrets creation")
}

func TestCreateSecrets_ExistingIsSuccess(t *testing.T) {
	t.Parallel()
	client := &itesting.FakeSecretsManager{
		CreateSecretFunc: func(in *secretsmanager.CreateSecretInput) (*secretsmanager.CreateSecretOutput, error) {
			if aws.ToString(in.Name) == "a" {
				return nil, &smtypes.ResourceExistsException{Message: aws.String("exists")}
			}
			return &secretsmanager.CreateSecretOutput{Name: in.Name}, nil
		},
	}
	ctx := itesting.NewProvisioningContext(t, config.EnvironmentStaging)
	writeSecrets(t, ctx, `{"a": 1, "b": 2}`)

	require.NoError(t, NewProvisioner(client).CreateSecrets(ctx))

	assert.Len(t, client.Secrets, 2)
	rec := itesting.Recorder(ctx)
	assert.True(t, rec.Has(provisioning.EventResourceExists, "a"))
	assert.True(t, rec.Has(provisioning.EventResourceCreated, "b"))
}

func TestCreateSecrets_IdempotentSecondRun(t *testing.T) {
	t.Parallel()
	created := map[string]bool{}
	client := &itesting.FakeSecretsManager{
		CreateSecretFunc: func(in *secretsmanager.CreateSecretInput) (*secretsmanager.CreateSecretOutput, error) {
			name := aws.ToString(in.Name)
			if created[name] {
				return nil, itesting.APIError("ResourceExistsException")
			}
			created[name] = true
			return &secretsmanager.CreateSecretOutput{Name: in.Name}, nil
		},
	}
	ctx := itesting.NewProvisioningContext(t, config.EnvironmentStaging)
	writeSecrets(t, ctx, `{"a": 1}`)
	p := NewProvisioner(client)

	require.NoError(t, p.CreateSecrets(ctx))
	require.NoError(t, p.CreateSecrets(ctx))

	assert.Len(t, created, 1)
}

func TestCreateSecrets_OtherErrorAborts(t *testing.T) {
	t.Parallel()
	denied := itesting.APIError("AccessDeniedException")
	client := &itesting.FakeSecretsManager{
		CreateSecretFunc: func(*secretsmanager.CreateSecretInput) (*secretsmanager.CreateSecretOutput, error) {
			return nil, denied
		},
	}
	ctx := itesting.NewProvisioningContext(t, config.EnvironmentStaging)
	writeSecrets(t, ctx, `{"a": 1, "b": 2}`)

	err := NewProvisioner(client).CreateSecrets(ctx)

	require.ErrorIs(t, err, denied)
	assert.Contains(t, err.Error(), "failed to create secret a")
	assert.Len(t, client.Secrets, 1, "remaining entries are not attempted")
}

func TestCreateSecrets_InvalidFile(t *testing.T) {
	t.Parallel()
	client := &itesting.FakeSecretsManager{}
	ctx := itesting.NewProvisioningContext(t, config.EnvironmentStaging)
	writeSecrets(t, ctx, `not json`)

	require.Error(t, NewProvisioner(client).CreateSecrets(ctx))
	assert.Empty(t, client.Secrets)
}
