package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/imamik/iacup/internal/platform/awsclient"
	"github.com/imamik/iacup/internal/provisioning"
)

const (
	phase = "secrets"
	kind  = "secret"
)

// SecretsAPI is the subset of the secret store client used by the provisioner.
type SecretsAPI interface {
	CreateSecret(ctx context.Context, in *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
}

// Provisioner creates secrets from the credentials' secrets file.
type Provisioner struct {
	client SecretsAPI
}

// NewProvisioner creates a secrets provisioner.
func NewProvisioner(client SecretsAPI) *Provisioner {
	return &Provisioner{client: client}
}

// Name implements provisioning.Phase.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements provisioning.Phase.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	return p.CreateSecrets(ctx)
}

// CreateSecrets creates one secret per top-level entry of the secrets file.
// A missing file is skipped. Existing secrets are left untouched.
func (p *Provisioner) CreateSecrets(ctx *provisioning.Context) error {
	path := ctx.Credentials.SecretsFile
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ctx.Observer.Printf("No secrets file found at %s, skipping secrets creation", path)
			return nil
		}
		return fmt.Errorf("failed to read secrets file %s: %w", path, err)
	}

	entries, err := ParseFile(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, entry := range entries {
		err := provisioning.Ensure(ctx.Observer, phase, provisioning.Resource{Kind: kind, Name: entry.Name},
			awsclient.IsSecretConflict,
			func() error {
				_, err := p.client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
					Name:         aws.String(entry.Name),
					SecretString: aws.String(entry.Payload),
				})
				return err
			},
		)
		if err != nil {
			return fmt.Errorf("failed to create secret %s: %w", entry.Name, err)
		}
		ctx.State.Secrets = append(ctx.State.Secrets, entry.Name)
	}
	return nil
}
