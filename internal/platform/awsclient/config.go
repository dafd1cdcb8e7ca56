package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/platform/s3"
)

// LoadConfig returns an SDK configuration pointing at the credentials' endpoint.
func LoadConfig(ctx context.Context, creds config.Credentials) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(creds.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, "")),
		awsconfig.WithBaseEndpoint(creds.Endpoint),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// Clients holds one client per service used during a provisioning run.
type Clients struct {
	Buckets        *s3.Client
	Lambda         *lambda.Client
	SQS            *sqs.Client
	SecretsManager *secretsmanager.Client
	APIGateway     *apigateway.Client
}

// NewClients creates the service clients for one provisioning run.
func NewClients(ctx context.Context, creds config.Credentials) (*Clients, error) {
	cfg, err := LoadConfig(ctx, creds)
	if err != nil {
		return nil, err
	}

	return &Clients{
		Buckets:        s3.NewFromConfig(cfg),
		Lambda:         lambda.NewFromConfig(cfg),
		SQS:            sqs.NewFromConfig(cfg),
		SecretsManager: secretsmanager.NewFromConfig(cfg),
		APIGateway:     apigateway.NewFromConfig(cfg),
	}, nil
}
