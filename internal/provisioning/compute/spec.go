package compute

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/packaging"
	"github.com/imamik/iacup/internal/util/naming"
)

// DefaultRole is the execution role name every function runs as.
const DefaultRole = "lambda-role"

// DefaultAllowedEnv lists the variables a function may receive from the run
// environment.
func DefaultAllowedEnv() []string {
	return []string{
		config.EnvMarker,
		config.EnvAccessKeyID,
		config.EnvSecretAccessKey,
		config.EnvDefaultRegion,
		config.EnvEndpointURL,
		config.EnvSecretsManagerURL,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// FunctionOptions are the inputs of NewFunctionSpec.
type FunctionOptions struct {
	Name        string             `validate:"required,max=64"`
	MemoryMB    int32              `validate:"min=128,max=10240"`
	Timeout     time.Duration      `validate:"min=1s,max=900s"`
	Environment config.Environment `validate:"required"`
	// Handler is required for dotnet builds; Go builds default to bootstrap.
	Handler string
	// Runtime defaults to the build toolchain's runtime.
	Runtime string
	// Role defaults to DefaultRole in the emulator account.
	Role  string
	Build packaging.Build

	// AllowedEnv defaults to DefaultAllowedEnv.
	AllowedEnv []string
	// Env is the raw run environment to select from.
	Env map[string]string
}

// FunctionSpec is a validated, immutable function description.
type FunctionSpec struct {
	name        string
	memoryMB    int32
	timeout     time.Duration
	environment config.Environment
	handler     string
	runtime     string
	role        string
	build       packaging.Build
	env         map[string]string
}

// NewFunctionSpec validates opts, applies defaults and computes the
// function's effective environment: the raw variables named in AllowedEnv,
// plus the environment marker, which always wins.
func NewFunctionSpec(opts FunctionOptions) (FunctionSpec, error) {
	if err := validate.Struct(opts); err != nil {
		return FunctionSpec{}, fmt.Errorf("invalid function %q: %w", opts.Name, err)
	}
	if !opts.Environment.IsValid() {
		return FunctionSpec{}, fmt.Errorf("invalid function %q: %w %q", opts.Name, config.ErrUnknownEnvironment, opts.Environment)
	}
	if err := opts.Build.Validate(); err != nil {
		return FunctionSpec{}, fmt.Errorf("invalid function %q: %w", opts.Name, err)
	}

	handler := opts.Handler
	if handler == "" {
		if opts.Build.Toolchain != packaging.ToolchainGo {
			return FunctionSpec{}, fmt.Errorf("invalid function %q: handler is required for %s builds", opts.Name, opts.Build.Toolchain)
		}
		handler = packaging.HandlerGo
	}

	runtime := opts.Runtime
	if runtime == "" {
		runtime = opts.Build.Runtime()
	}

	role := opts.Role
	if role == "" {
		role = naming.FunctionRole(DefaultRole)
	}

	allowed := opts.AllowedEnv
	if allowed == nil {
		allowed = DefaultAllowedEnv()
	}

	return FunctionSpec{
		name:        opts.Name,
		memoryMB:    opts.MemoryMB,
		timeout:     opts.Timeout,
		environment: opts.Environment,
		handler:     handler,
		runtime:     runtime,
		role:        role,
		build:       opts.Build,
		env:         effectiveEnv(allowed, opts.Env, opts.Environment),
	}, nil
}

func effectiveEnv(allowed []string, raw map[string]string, env config.Environment) map[string]string {
	out := make(map[string]string, len(allowed)+1)
	for k, v := range raw {
		if slices.Contains(allowed, k) {
			out[k] = v
		}
	}
	out[config.EnvMarker] = env.String()
	return out
}

func (s FunctionSpec) Name() string                    { return s.name }
func (s FunctionSpec) MemoryMB() int32                 { return s.memoryMB }
func (s FunctionSpec) Timeout() time.Duration          { return s.timeout }
func (s FunctionSpec) Environment() config.Environment { return s.environment }
func (s FunctionSpec) Handler() string                 { return s.handler }
func (s FunctionSpec) Runtime() string                 { return s.runtime }
func (s FunctionSpec) Role() string                    { return s.role }
func (s FunctionSpec) Build() packaging.Build          { return s.build }

// Env returns a copy of the effective environment.
func (s FunctionSpec) Env() map[string]string {
	return maps.Clone(s.env)
}

// EnvKeys returns the effective environment's variable names, sorted.
func (s FunctionSpec) EnvKeys() []string {
	return slices.Sorted(maps.Keys(s.env))
}
