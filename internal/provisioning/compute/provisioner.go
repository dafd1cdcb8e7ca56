package compute

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/packaging"
	"github.com/imamik/iacup/internal/platform/awsclient"
	"github.com/imamik/iacup/internal/provisioning"
	"github.com/imamik/iacup/internal/util/naming"
)

const (
	phase          = "functions"
	kindFunction   = "function"
	kindPermission = "permission"

	// GatewayStatementID is the permission statement granting the gateway access.
	GatewayStatementID = "apigateway-access"
	gatewayPrincipal   = "apigateway.amazonaws.com"
	invokeAction       = "lambda:InvokeFunction"
)

// FunctionAPI is the subset of the function client used by the provisioner.
type FunctionAPI interface {
	CreateFunction(ctx context.Context, in *lambda.CreateFunctionInput, optFns ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error)
	AddPermission(ctx context.Context, in *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error)
}

// Packager builds a function project into a deployment artifact.
type Packager interface {
	BuildAndPackage(ctx context.Context, build packaging.Build, outputZip string) error
}

// CreateFunctionInput describes a function to create from an artifact on disk.
type CreateFunctionInput struct {
	Name         string
	ArtifactPath string
	Handler      string
	Runtime      string
	Role         string
	MemoryMB     int32
	Timeout      time.Duration
	Env          map[string]string
}

// Provisioner creates functions and their gateway permissions.
type Provisioner struct {
	client    FunctionAPI
	packager  Packager
	layout    config.Layout
	functions []FunctionSpec
}

// NewProvisioner creates a function provisioner. functions are deployed when
// the provisioner runs as a phase.
func NewProvisioner(client FunctionAPI, packager Packager, layout config.Layout, functions ...FunctionSpec) *Provisioner {
	return &Provisioner{
		client:    client,
		packager:  packager,
		layout:    layout,
		functions: functions,
	}
}

// Name implements provisioning.Phase.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements provisioning.Phase.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	for _, fn := range p.functions {
		if err := p.AddFunction(ctx, fn); err != nil {
			return err
		}
	}
	return nil
}

// AddFunction builds, packages and deploys spec, then grants the gateway
// permission to invoke it. The first failure aborts the sequence.
func (p *Provisioner) AddFunction(ctx *provisioning.Context, spec FunctionSpec) error {
	artifact := p.layout.ArtifactPath(spec.Name())

	if err := p.packager.BuildAndPackage(ctx, spec.Build(), artifact); err != nil {
		return fmt.Errorf("failed to package function %s: %w", spec.Name(), err)
	}

	err := p.Create(ctx, CreateFunctionInput{
		Name:         spec.Name(),
		ArtifactPath: artifact,
		Handler:      spec.Handler(),
		Runtime:      spec.Runtime(),
		Role:         spec.Role(),
		MemoryMB:     spec.MemoryMB(),
		Timeout:      spec.Timeout(),
		Env:          spec.Env(),
	})
	if err != nil {
		return err
	}

	return p.GrantInvokePermission(ctx, spec.Name(), GatewayStatementID)
}

// Create creates a function from the artifact at in.ArtifactPath. An
// existing function counts as success.
func (p *Provisioner) Create(ctx *provisioning.Context, in CreateFunctionInput) error {
	code, err := os.ReadFile(in.ArtifactPath)
	if err != nil {
		return &provisioning.PreconditionError{Path: in.ArtifactPath, Err: err}
	}

	err = provisioning.Ensure(ctx.Observer, phase, provisioning.Resource{Kind: kindFunction, Name: in.Name},
		awsclient.IsFunctionConflict,
		func() error {
			_, err := p.client.CreateFunction(ctx, &lambda.CreateFunctionInput{
				FunctionName: aws.String(in.Name),
				Runtime:      lambdatypes.Runtime(in.Runtime),
				Role:         aws.String(in.Role),
				Handler:      aws.String(in.Handler),
				Code:         &lambdatypes.FunctionCode{ZipFile: code},
				Environment:  &lambdatypes.Environment{Variables: in.Env},
				MemorySize:   aws.Int32(in.MemoryMB),
				Timeout:      aws.Int32(int32(in.Timeout / time.Second)),
			})
			return err
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create function %s: %w", in.Name, err)
	}
	ctx.State.Functions = append(ctx.State.Functions, in.Name)
	return nil
}

// GrantInvokePermission allows the emulator's gateway to invoke the function.
// An existing statement with the same id counts as success.
func (p *Provisioner) GrantInvokePermission(ctx *provisioning.Context, functionName, statementID string) error {
	res := provisioning.Resource{Kind: kindPermission, Name: functionName + "/" + statementID}
	err := provisioning.Ensure(ctx.Observer, phase, res, awsclient.IsFunctionConflict, func() error {
		_, err := p.client.AddPermission(ctx, &lambda.AddPermissionInput{
			FunctionName: aws.String(functionName),
			StatementId:  aws.String(statementID),
			Action:       aws.String(invokeAction),
			Principal:    aws.String(gatewayPrincipal),
			SourceArn:    aws.String(naming.GatewaySourceARN(ctx.Credentials.Region)),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to grant invoke permission on %s: %w", functionName, err)
	}
	return nil
}
