// Package testing provides fakes, recorders, and helpers shared by the
// provisioning, orchestration and CLI tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - Fake SDK clients (FakeLambda, FakeSQS, FakeSecretsManager, FakeAPIGateway,
//     FakeBuckets) with overridable XxxFunc fields and recorded inputs
//   - CallLog: cross-client call ordering
//   - RecordingObserver: records provisioning events
//   - FakeRunner: records shell commands instead of executing them
//
// Usage:
//
//	log := testing.NewCallLog()
//	fn := &testing.FakeLambda{Log: log}
//	ctx := testing.NewProvisioningContext(t, config.EnvironmentStaging)
//	...
//	assert.Equal(t, []string{"lambda.CreateFunction", "lambda.AddPermission"}, log.Calls())
package testing
