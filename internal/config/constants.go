package config

// Environment variable names consumed by iacup and injected into functions.
const (
	// EnvMarker is injected into every deployed function so it can tell
	// which environment it runs in.
	EnvMarker = "IAC_ENVIRONMENT"

	EnvAccessKeyID       = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey   = "AWS_SECRET_ACCESS_KEY"
	EnvDefaultRegion     = "AWS_DEFAULT_REGION"
	EnvEndpointURL       = "LOCALSTACK_URL"
	EnvSecretsManagerURL = "LOCALSTACK_SECRETS_MANAGER_URL"
	EnvLogLevel          = "IACUP_LOG_LEVEL"
)

// Defaults used when the corresponding variable is not set. They match the
// placeholder credentials accepted by the emulator.
const (
	DefaultAccessKeyID     = "test"
	DefaultSecretAccessKey = "test"
	DefaultEndpointURL     = "http://localhost:4566"
	DefaultRegion          = "eu-west-1"
)

// AccountID is the fixed account id of the emulated cloud.
const AccountID = "000000000000"
