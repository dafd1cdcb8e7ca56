// Package fibonacci is the sample function deployed by iacup. It answers API
// Gateway proxy events with a Fibonacci number, the environment it runs in
// and the value of a secret read from the secret store.
package fibonacci

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/imamik/iacup/internal/config"
)

// SecretName is the secret reported in every response.
const SecretName = "secret_example"

// DefaultInput is used when the request carries no number parameter.
const DefaultInput = 10

// MaxInput is the largest input whose result fits in 64 bits.
const MaxInput = 92

// ErrInputTooLarge is returned by Compute for inputs above MaxInput.
var ErrInputTooLarge = errors.New("input too large")

// SecretReader is the secret store call used by the handler.
type SecretReader interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Handler serves proxy events.
type Handler struct {
	secrets     SecretReader
	environment config.Environment
	logger      *slog.Logger
}

// NewHandler creates a handler. environment is the raw value of the
// environment marker; unknown values are reported as "Unknown".
func NewHandler(secrets SecretReader, environment string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	env, err := config.ParseEnvironment(environment)
	if err != nil {
		env = ""
	}
	return &Handler{secrets: secrets, environment: env, logger: logger}
}

// Handle answers one proxy event.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	n := ParseInput(req.QueryStringParameters)

	fib, err := Compute(n)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Body:       fmt.Sprintf("Fibonacci(%d): %v, maximum is %d\n", n, err, MaxInput),
		}, nil
	}

	secret, err := h.readSecret(ctx)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	if h.environment.IsDevelopment() {
		h.logger.Debug("computed", "number", n, "result", fib, "request_id", req.RequestContext.RequestID)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       h.body(n, fib, secret),
	}, nil
}

func (h *Handler) readSecret(ctx context.Context) (string, error) {
	out, err := h.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(SecretName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", SecretName, err)
	}
	return aws.ToString(out.SecretString), nil
}

func (h *Handler) body(n, fib uint64, secret string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Environment: %s\n", h.environment.Title())
	fmt.Fprintf(&b, "Fibonacci(%d) = %d\n", n, fib)
	fmt.Fprintf(&b, "Secret: %s\n", secret)
	switch {
	case h.environment.IsDevelopment():
		b.WriteString("Running in development mode: extra logs enabled.\n")
	case h.environment == config.EnvironmentProduction:
		b.WriteString("Running in production mode: optimized settings.\n")
	}
	return b.String()
}

// ParseInput reads the number parameter. A missing parameter yields
// DefaultInput; a value that is not a non-negative integer yields 0.
func ParseInput(params map[string]string) uint64 {
	raw, ok := params["number"]
	if !ok {
		return DefaultInput
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Compute returns the n-th Fibonacci number with fib(0) = fib(1) = 1.
func Compute(n uint64) (uint64, error) {
	if n > MaxInput {
		return 0, ErrInputTooLarge
	}
	a, b := uint64(1), uint64(1)
	for i := uint64(1); i < n; i++ {
		a, b = b, a+b
	}
	return b, nil
}
