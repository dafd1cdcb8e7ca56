package orchestration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/platform/awsclient"
	"github.com/imamik/iacup/internal/provisioning"
	"github.com/imamik/iacup/internal/provisioning/compute"
	"github.com/imamik/iacup/internal/provisioning/gateway"
	"github.com/imamik/iacup/internal/provisioning/queues"
	"github.com/imamik/iacup/internal/provisioning/secrets"
	"github.com/imamik/iacup/internal/provisioning/storage"
	"github.com/imamik/iacup/internal/stack"
)

// FunctionAPI combines the function client calls used by compute and queues.
type FunctionAPI interface {
	compute.FunctionAPI
	queues.MappingAPI
}

// Clients holds the service clients of one invocation.
type Clients struct {
	Buckets   storage.BucketAPI
	Functions FunctionAPI
	Queues    queues.QueueAPI
	Secrets   secrets.SecretsAPI
	Gateway   gateway.GatewayAPI
}

// ClientsFromAWS adapts SDK clients.
func ClientsFromAWS(c *awsclient.Clients) Clients {
	return Clients{
		Buckets:   c.Buckets,
		Functions: c.Lambda,
		Queues:    c.SQS,
		Secrets:   c.SecretsManager,
		Gateway:   c.APIGateway,
	}
}

// Options configure an Orchestrator.
type Options struct {
	Environment config.Environment
	Layout      config.Layout
	Credentials config.Credentials
	// Vars is the run environment functions select their variables from and
	// queue names are read from.
	Vars   config.Vars
	Stack  stack.Stack
	Logger *slog.Logger
}

// Orchestrator runs the provisioning operations of one invocation.
type Orchestrator struct {
	opts     Options
	clients  Clients
	packager compute.Packager
}

// New creates an orchestrator.
func New(opts Options, clients Clients, packager compute.Packager) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Orchestrator{opts: opts, clients: clients, packager: packager}
}

// Environment returns the target environment.
func (o *Orchestrator) Environment() config.Environment {
	return o.opts.Environment
}

// Plan returns the phase names Build runs.
func (o *Orchestrator) Plan() []string {
	return PlanFor(o.opts.Environment)
}

// Build provisions the phases of the environment's plan in order and stops
// at the first failure.
func (o *Orchestrator) Build(ctx context.Context) error {
	phases, err := o.phases()
	if err != nil {
		return err
	}
	return provisioning.NewPipeline(phases...).Run(o.newContext(ctx))
}

// CreateQueues creates the stack's queues and binds them to their functions.
func (o *Orchestrator) CreateQueues(ctx context.Context) error {
	specs, err := o.opts.Stack.QueueSpecs(o.opts.Vars)
	if err != nil {
		return err
	}
	return queues.NewProvisioner(o.clients.Queues, o.clients.Functions).CreateQueues(o.newContext(ctx), specs)
}

// CreateBuckets ensures the stack's buckets exist.
func (o *Orchestrator) CreateBuckets(ctx context.Context) error {
	return storage.NewProvisioner(o.clients.Buckets).EnsureBuckets(o.newContext(ctx), o.opts.Stack.Buckets)
}

func (o *Orchestrator) newContext(ctx context.Context) *provisioning.Context {
	pCtx := provisioning.NewContext(ctx, o.opts.Environment, o.opts.Credentials, o.opts.Logger)
	pCtx.Observer = pCtx.Observer.WithFields(map[string]string{"environment": o.opts.Environment.String()})
	return pCtx
}

// phases resolves the environment's plan into provisioners.
func (o *Orchestrator) phases() ([]provisioning.Phase, error) {
	plan, ok := buildPlan[o.opts.Environment]
	if !ok {
		return nil, fmt.Errorf("%w %q", config.ErrUnknownEnvironment, o.opts.Environment)
	}

	phases := make([]provisioning.Phase, 0, len(plan))
	for _, name := range plan {
		switch name {
		case PhaseSecrets:
			phases = append(phases, secrets.NewProvisioner(o.clients.Secrets))
		case PhaseFunctions:
			// Function specs resolve only once earlier phases have run.
			phases = append(phases, provisioning.PhaseFunc{PhaseName: PhaseFunctions, Fn: o.provisionFunctions})
		case PhaseGateway:
			definition := o.opts.Layout.GatewayDefinition(o.opts.Stack.Gateway.Definition)
			phases = append(phases, gateway.NewProvisioner(o.clients.Gateway, o.opts.Stack.Gateway.Prefix, definition))
		default:
			return nil, fmt.Errorf("unknown phase %q", name)
		}
	}
	return phases, nil
}

func (o *Orchestrator) provisionFunctions(ctx *provisioning.Context) error {
	specs, err := o.opts.Stack.FunctionSpecs(o.opts.Environment, o.opts.Vars, o.opts.Layout)
	if err != nil {
		return err
	}
	return compute.NewProvisioner(o.clients.Functions, o.packager, o.opts.Layout, specs...).Provision(ctx)
}
