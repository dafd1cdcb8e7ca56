package gateway

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigateway/types"

	"github.com/imamik/iacup/internal/platform/awsclient"
	"github.com/imamik/iacup/internal/provisioning"
	"github.com/imamik/iacup/internal/util/naming"
)

const (
	phase = "gateway"
	kind  = "rest api"
)

// GatewayAPI is the subset of the gateway client used by the provisioner.
type GatewayAPI interface {
	apigateway.GetRestApisAPIClient
	CreateRestApi(ctx context.Context, in *apigateway.CreateRestApiInput, optFns ...func(*apigateway.Options)) (*apigateway.CreateRestApiOutput, error)
	PutRestApi(ctx context.Context, in *apigateway.PutRestApiInput, optFns ...func(*apigateway.Options)) (*apigateway.PutRestApiOutput, error)
	CreateDeployment(ctx context.Context, in *apigateway.CreateDeploymentInput, optFns ...func(*apigateway.Options)) (*apigateway.CreateDeploymentOutput, error)
}

// Provisioner creates, imports and deploys the HTTP gateway.
type Provisioner struct {
	client     GatewayAPI
	prefix     string
	definition string
}

// NewProvisioner creates a gateway provisioner. definition is the path of the
// API definition document.
func NewProvisioner(client GatewayAPI, prefix, definition string) *Provisioner {
	return &Provisioner{client: client, prefix: prefix, definition: definition}
}

// Name implements provisioning.Phase.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements provisioning.Phase.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	return p.CreateGateway(ctx)
}

// CreateGateway ensures the REST API exists, imports the definition into it
// and deploys it to the environment's stage, in that order.
func (p *Provisioner) CreateGateway(ctx *provisioning.Context) error {
	body, err := os.ReadFile(p.definition)
	if err != nil {
		return &provisioning.PreconditionError{Path: p.definition, Err: err}
	}

	name := naming.Gateway(p.prefix, ctx.Environment)
	apiID, err := p.ensureAPI(ctx, name)
	if err != nil {
		return err
	}
	ctx.State.GatewayID = apiID

	_, err = p.client.PutRestApi(ctx, &apigateway.PutRestApiInput{
		RestApiId: aws.String(apiID),
		Mode:      apigwtypes.PutModeOverwrite,
		Body:      body,
	})
	if err != nil {
		return fmt.Errorf("failed to import API definition into %s: %w", apiID, err)
	}
	ctx.Observer.Printf("API definition imported into API %s", apiID)

	stage := ctx.Environment.String()
	_, err = p.client.CreateDeployment(ctx, &apigateway.CreateDeploymentInput{
		RestApiId: aws.String(apiID),
		StageName: aws.String(stage),
	})
	if err != nil {
		return fmt.Errorf("failed to deploy API %s to stage %s: %w", apiID, stage, err)
	}
	ctx.Observer.Printf("API Gateway %s deployed to stage %s", apiID, stage)
	return nil
}

// ensureAPI returns the id of the REST API with the given custom id,
// creating it when none exists.
func (p *Provisioner) ensureAPI(ctx *provisioning.Context, customID string) (string, error) {
	existing, err := p.lookup(ctx, customID)
	if err != nil {
		return "", err
	}
	if existing != "" {
		provisioning.LogResourceExists(ctx.Observer, phase, kind, customID, existing)
		return existing, nil
	}

	var created string
	err = provisioning.Ensure(ctx.Observer, phase, provisioning.Resource{Kind: kind, Name: customID},
		awsclient.IsGatewayConflict,
		func() error {
			out, err := p.client.CreateRestApi(ctx, &apigateway.CreateRestApiInput{
				Name: aws.String(customID),
				Tags: map[string]string{naming.CustomIDTag: customID},
			})
			if err != nil {
				return err
			}
			created = aws.ToString(out.Id)
			return nil
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create API %s: %w", customID, err)
	}
	if created != "" {
		return created, nil
	}

	// Lost a creation race; the winner's API is the one to use.
	existing, err = p.lookup(ctx, customID)
	if err != nil {
		return "", err
	}
	if existing == "" {
		return "", fmt.Errorf("API %s reported as existing but was not found", customID)
	}
	return existing, nil
}

// lookup finds the REST API carrying customID as tag or name.
func (p *Provisioner) lookup(ctx context.Context, customID string) (string, error) {
	paginator := apigateway.NewGetRestApisPaginator(p.client, &apigateway.GetRestApisInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list APIs: %w", err)
		}
		for _, api := range page.Items {
			if api.Tags[naming.CustomIDTag] == customID || aws.ToString(api.Name) == customID {
				return aws.ToString(api.Id), nil
			}
		}
	}
	return "", nil
}
