package proxy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// Invoker runs a function for one API Gateway proxy event.
type Invoker interface {
	Invoke(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

// HandlerFunc adapts an in-process handler to Invoker.
type HandlerFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Invoke calls f.
func (f HandlerFunc) Invoke(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return f(ctx, req)
}

// InvokeAPI is the function client call used by FunctionInvoker.
type InvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// FunctionError is returned when the invoked function itself failed.
type FunctionError struct {
	Function string
	Kind     string
	Payload  string
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("function %s failed (%s): %s", e.Function, e.Kind, e.Payload)
}

// FunctionInvoker invokes a deployed function synchronously.
type FunctionInvoker struct {
	client   InvokeAPI
	function string
}

// NewFunctionInvoker creates an invoker for the named function.
func NewFunctionInvoker(client InvokeAPI, function string) *FunctionInvoker {
	return &FunctionInvoker{client: client, function: function}
}

// Invoke sends req as the request payload and decodes the proxy response.
func (i *FunctionInvoker) Invoke(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var resp events.APIGatewayProxyResponse

	payload, err := json.Marshal(req)
	if err != nil {
		return resp, fmt.Errorf("failed to encode request: %w", err)
	}

	out, err := i.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(i.function),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return resp, fmt.Errorf("failed to invoke function %s: %w", i.function, err)
	}
	if out.FunctionError != nil {
		return resp, &FunctionError{Function: i.function, Kind: aws.ToString(out.FunctionError), Payload: string(out.Payload)}
	}

	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return resp, fmt.Errorf("failed to decode response of function %s: %w", i.function, err)
	}
	return resp, nil
}
