package provisioning

import (
	"context"
	"log/slog"

	"github.com/imamik/iacup/internal/config"
)

// State holds the identities of resources provisioned during one run.
// It is progressively populated as each phase completes.
type State struct {
	Buckets   []string
	Secrets   []string
	Queues    []string
	Functions []string
	GatewayID string
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Environment config.Environment
	Credentials config.Credentials
	State       *State
	Observer    Observer
}

// NewContext creates a new provisioning context logging through logger.
func NewContext(
	ctx context.Context,
	env config.Environment,
	creds config.Credentials,
	logger *slog.Logger,
) *Context {
	return &Context{
		Context:     ctx,
		Environment: env,
		Credentials: creds,
		State:       NewState(),
		Observer:    NewSlogObserver(logger),
	}
}
