package fibonacci

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/imamik/iacup/internal/config"
)

// Settings is the function's view of its environment.
type Settings struct {
	Environment string `env:"IAC_ENVIRONMENT"`
	// SecretsEndpoint overrides the emulator endpoint for the secret store.
	SecretsEndpoint string `env:"LOCALSTACK_SECRETS_MANAGER_URL"`
}

// LoadSettings reads Settings from vars, or from the process environment
// when vars is nil.
func LoadSettings(vars map[string]string) (Settings, error) {
	var s Settings
	opts := env.Options{}
	if vars != nil {
		opts.Environment = vars
	}
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Settings{}, fmt.Errorf("failed to read function settings: %w", err)
	}
	return s, nil
}

// IsLocal reports whether the function runs on the developer machine.
func (s Settings) IsLocal() bool {
	e, err := config.ParseEnvironment(s.Environment)
	return err == nil && e == config.EnvironmentLocal
}

// SecretsCredentials returns the credentials for the secret store client.
// The dedicated endpoint wins over the general emulator endpoint.
func (s Settings) SecretsCredentials(creds config.Credentials) config.Credentials {
	if s.SecretsEndpoint != "" {
		creds.Endpoint = s.SecretsEndpoint
	}
	return creds
}
