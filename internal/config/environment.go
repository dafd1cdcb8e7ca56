package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEnvironment is returned when an environment name is not one of
// the supported values.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Environment is the deployment context a build targets.
type Environment string

const (
	// EnvironmentLocal runs functions on the developer machine; only shared
	// resources are provisioned in the emulator.
	EnvironmentLocal Environment = "local"
	// EnvironmentStaging deploys functions and the HTTP gateway into the emulator.
	EnvironmentStaging Environment = "staging"
	// EnvironmentProduction is reserved for the real cloud; the emulator only
	// receives shared resources.
	EnvironmentProduction Environment = "production"
)

// DefaultEnvironment is used when no environment is selected.
const DefaultEnvironment = EnvironmentStaging

// Environments returns all supported environments in a stable order.
func Environments() []Environment {
	return []Environment{EnvironmentLocal, EnvironmentStaging, EnvironmentProduction}
}

// EnvironmentNames returns the names of all supported environments.
func EnvironmentNames() []string {
	envs := Environments()
	names := make([]string, len(envs))
	for i, e := range envs {
		names[i] = string(e)
	}
	return names
}

// ParseEnvironment converts a name into an Environment.
// The short forms "stage" and "prod" are accepted and normalized.
func ParseEnvironment(name string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "local":
		return EnvironmentLocal, nil
	case "staging", "stage":
		return EnvironmentStaging, nil
	case "production", "prod":
		return EnvironmentProduction, nil
	default:
		return "", fmt.Errorf("%w %q (valid: %s)", ErrUnknownEnvironment, name, strings.Join(EnvironmentNames(), ", "))
	}
}

// IsValid reports whether e is one of the supported environments.
func (e Environment) IsValid() bool {
	switch e {
	case EnvironmentLocal, EnvironmentStaging, EnvironmentProduction:
		return true
	default:
		return false
	}
}

// Title returns the capitalized environment name, or "Unknown".
func (e Environment) Title() string {
	switch e {
	case EnvironmentLocal:
		return "Local"
	case EnvironmentStaging:
		return "Staging"
	case EnvironmentProduction:
		return "Production"
	default:
		return "Unknown"
	}
}

// IsDevelopment reports whether e is a development environment (local or staging).
func (e Environment) IsDevelopment() bool {
	return e == EnvironmentLocal || e == EnvironmentStaging
}

func (e Environment) String() string {
	return string(e)
}
