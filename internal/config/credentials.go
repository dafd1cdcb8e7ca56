package config

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// SecretsFileName is the name of the optional secrets file inside the root
// directory passed to ResolveCredentials.
const SecretsFileName = "secrets.json"

// Credentials holds the connection parameters for the emulated cloud.
// It is resolved once per run and never modified afterwards.
type Credentials struct {
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:"test"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:"test"`
	Endpoint        string `env:"LOCALSTACK_URL" envDefault:"http://localhost:4566"`
	Region          string `env:"AWS_DEFAULT_REGION" envDefault:"eu-west-1"`

	// SecretsFile is derived from the root directory, not from the environment.
	SecretsFile string `env:"-"`
}

// DefaultCredentials returns the placeholder credentials of the emulator.
func DefaultCredentials(root string) Credentials {
	return Credentials{
		AccessKeyID:     DefaultAccessKeyID,
		SecretAccessKey: DefaultSecretAccessKey,
		Endpoint:        DefaultEndpointURL,
		Region:          DefaultRegion,
		SecretsFile:     filepath.Join(root, SecretsFileName),
	}
}

// ResolveCredentials reads credentials from the process environment.
// Unset variables fall back to the emulator defaults.
func ResolveCredentials(root string) Credentials {
	return resolve(root, env.Options{})
}

// ResolveCredentialsFrom reads credentials from vars instead of the process
// environment.
func ResolveCredentialsFrom(root string, vars map[string]string) Credentials {
	if vars == nil {
		vars = map[string]string{}
	}
	return resolve(root, env.Options{Environment: vars})
}

func resolve(root string, opts env.Options) Credentials {
	var creds Credentials
	if err := env.ParseWithOptions(&creds, opts); err != nil {
		// Only string fields are parsed, so this cannot fail in practice.
		return DefaultCredentials(root)
	}
	creds.SecretsFile = filepath.Join(root, SecretsFileName)
	return creds
}
