package testing

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// FakeLambda records compute-function calls. Unset XxxFunc fields succeed.
type FakeLambda struct {
	Log *CallLog

	CreateFunctionFunc           func(in *lambda.CreateFunctionInput) (*lambda.CreateFunctionOutput, error)
	AddPermissionFunc            func(in *lambda.AddPermissionInput) (*lambda.AddPermissionOutput, error)
	CreateEventSourceMappingFunc func(in *lambda.CreateEventSourceMappingInput) (*lambda.CreateEventSourceMappingOutput, error)
	InvokeFunc                   func(in *lambda.InvokeInput) (*lambda.InvokeOutput, error)

	mu              sync.Mutex
	CreateFunctions []*lambda.CreateFunctionInput
	Permissions     []*lambda.AddPermissionInput
	Mappings        []*lambda.CreateEventSourceMappingInput
	Invocations     []*lambda.InvokeInput
}

// CreateFunction implements the compute client.
func (f *FakeLambda) CreateFunction(_ context.Context, in *lambda.CreateFunctionInput, _ ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error) {
	f.Log.Record("lambda.CreateFunction")
	f.mu.Lock()
	f.CreateFunctions = append(f.CreateFunctions, in)
	f.mu.Unlock()
	if f.CreateFunctionFunc != nil {
		return f.CreateFunctionFunc(in)
	}
	return &lambda.CreateFunctionOutput{FunctionName: in.FunctionName}, nil
}

// AddPermission implements the compute client.
func (f *FakeLambda) AddPermission(_ context.Context, in *lambda.AddPermissionInput, _ ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error) {
	f.Log.Record("lambda.AddPermission")
	f.mu.Lock()
	f.Permissions = append(f.Permissions, in)
	f.mu.Unlock()
	if f.AddPermissionFunc != nil {
		return f.AddPermissionFunc(in)
	}
	return &lambda.AddPermissionOutput{}, nil
}

// CreateEventSourceMapping implements the queue binding client.
func (f *FakeLambda) CreateEventSourceMapping(_ context.Context, in *lambda.CreateEventSourceMappingInput, _ ...func(*lambda.Options)) (*lambda.CreateEventSourceMappingOutput, error) {
	f.Log.Record("lambda.CreateEventSourceMapping")
	f.mu.Lock()
	f.Mappings = append(f.Mappings, in)
	f.mu.Unlock()
	if f.CreateEventSourceMappingFunc != nil {
		return f.CreateEventSourceMappingFunc(in)
	}
	return &lambda.CreateEventSourceMappingOutput{UUID: aws.String("fake-mapping")}, nil
}

// Invoke implements the proxy invoker.
func (f *FakeLambda) Invoke(_ context.Context, in *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.Log.Record("lambda.Invoke")
	f.mu.Lock()
	f.Invocations = append(f.Invocations, in)
	f.mu.Unlock()
	if f.InvokeFunc != nil {
		return f.InvokeFunc(in)
	}
	return &lambda.InvokeOutput{StatusCode: 200, Payload: []byte(`{}`)}, nil
}

// FakeSQS records queue calls.
type FakeSQS struct {
	Log *CallLog

	CreateQueueFunc func(in *sqs.CreateQueueInput) (*sqs.CreateQueueOutput, error)

	mu     sync.Mutex
	Queues []*sqs.CreateQueueInput
}

// CreateQueue implements the queue client.
func (f *FakeSQS) CreateQueue(_ context.Context, in *sqs.CreateQueueInput, _ ...func(*sqs.Options)) (*sqs.CreateQueueOutput, error) {
	f.Log.Record("sqs.CreateQueue")
	f.mu.Lock()
	f.Queues = append(f.Queues, in)
	f.mu.Unlock()
	if f.CreateQueueFunc != nil {
		return f.CreateQueueFunc(in)
	}
	return &sqs.CreateQueueOutput{QueueUrl: aws.String("http://localhost:4566/000000000000/" + aws.ToString(in.QueueName))}, nil
}

// FakeSecretsManager records secret store calls.
type FakeSecretsManager struct {
	Log *CallLog

	CreateSecretFunc   func(in *secretsmanager.CreateSecretInput) (*secretsmanager.CreateSecretOutput, error)
	GetSecretValueFunc func(in *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error)

	mu      sync.Mutex
	Secrets []*secretsmanager.CreateSecretInput
}

// CreateSecret implements the secrets client.
func (f *FakeSecretsManager) CreateSecret(_ context.Context, in *secretsmanager.CreateSecretInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error) {
	f.Log.Record("secretsmanager.CreateSecret")
	f.mu.Lock()
	f.Secrets = append(f.Secrets, in)
	f.mu.Unlock()
	if f.CreateSecretFunc != nil {
		return f.CreateSecretFunc(in)
	}
	return &secretsmanager.CreateSecretOutput{Name: in.Name}, nil
}

// GetSecretValue implements the secret reader.
func (f *FakeSecretsManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.Log.Record("secretsmanager.GetSecretValue")
	if f.GetSecretValueFunc != nil {
		return f.GetSecretValueFunc(in)
	}
	return &secretsmanager.GetSecretValueOutput{Name: in.SecretId, SecretString: aws.String(`""`)}, nil
}

// FakeAPIGateway records gateway calls.
type FakeAPIGateway struct {
	Log *CallLog

	GetRestApisFunc      func(in *apigateway.GetRestApisInput) (*apigateway.GetRestApisOutput, error)
	CreateRestApiFunc    func(in *apigateway.CreateRestApiInput) (*apigateway.CreateRestApiOutput, error)
	PutRestApiFunc       func(in *apigateway.PutRestApiInput) (*apigateway.PutRestApiOutput, error)
	CreateDeploymentFunc func(in *apigateway.CreateDeploymentInput) (*apigateway.CreateDeploymentOutput, error)

	mu          sync.Mutex
	Created     []*apigateway.CreateRestApiInput
	Imports     []*apigateway.PutRestApiInput
	Deployments []*apigateway.CreateDeploymentInput
}

// GetRestApis implements the gateway client. Without a GetRestApisFunc it
// reports no existing APIs.
func (f *FakeAPIGateway) GetRestApis(_ context.Context, in *apigateway.GetRestApisInput, _ ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
	f.Log.Record("apigateway.GetRestApis")
	if f.GetRestApisFunc != nil {
		return f.GetRestApisFunc(in)
	}
	return &apigateway.GetRestApisOutput{}, nil
}

// CreateRestApi implements the gateway client.
func (f *FakeAPIGateway) CreateRestApi(_ context.Context, in *apigateway.CreateRestApiInput, _ ...func(*apigateway.Options)) (*apigateway.CreateRestApiOutput, error) {
	f.Log.Record("apigateway.CreateRestApi")
	f.mu.Lock()
	f.Created = append(f.Created, in)
	f.mu.Unlock()
	if f.CreateRestApiFunc != nil {
		return f.CreateRestApiFunc(in)
	}
	return &apigateway.CreateRestApiOutput{Id: aws.String("fake-api"), Name: in.Name, Tags: in.Tags}, nil
}

// PutRestApi implements the gateway client.
func (f *FakeAPIGateway) PutRestApi(_ context.Context, in *apigateway.PutRestApiInput, _ ...func(*apigateway.Options)) (*apigateway.PutRestApiOutput, error) {
	f.Log.Record("apigateway.PutRestApi")
	f.mu.Lock()
	f.Imports = append(f.Imports, in)
	f.mu.Unlock()
	if f.PutRestApiFunc != nil {
		return f.PutRestApiFunc(in)
	}
	return &apigateway.PutRestApiOutput{Id: in.RestApiId}, nil
}

// CreateDeployment implements the gateway client.
func (f *FakeAPIGateway) CreateDeployment(_ context.Context, in *apigateway.CreateDeploymentInput, _ ...func(*apigateway.Options)) (*apigateway.CreateDeploymentOutput, error) {
	f.Log.Record("apigateway.CreateDeployment")
	f.mu.Lock()
	f.Deployments = append(f.Deployments, in)
	f.mu.Unlock()
	if f.CreateDeploymentFunc != nil {
		return f.CreateDeploymentFunc(in)
	}
	return &apigateway.CreateDeploymentOutput{Id: aws.String("fake-deployment")}, nil
}

// FakeBuckets records object-storage calls against the bucket wrapper API.
type FakeBuckets struct {
	Log *CallLog

	BucketExistsFunc func(name string) (bool, error)
	CreateBucketFunc func(name string) error

	mu      sync.Mutex
	Created []string
}

// BucketExists implements the bucket wrapper. Without a BucketExistsFunc
// every bucket is absent.
func (f *FakeBuckets) BucketExists(_ context.Context, name string) (bool, error) {
	f.Log.Record("s3.HeadBucket")
	if f.BucketExistsFunc != nil {
		return f.BucketExistsFunc(name)
	}
	return false, nil
}

// CreateBucket implements the bucket wrapper.
func (f *FakeBuckets) CreateBucket(_ context.Context, name string) error {
	f.Log.Record("s3.CreateBucket")
	f.mu.Lock()
	f.Created = append(f.Created, name)
	f.mu.Unlock()
	if f.CreateBucketFunc != nil {
		return f.CreateBucketFunc(name)
	}
	return nil
}
