// Package config defines the run configuration shared by every provisioning
// subsystem.
//
// It resolves the [Credentials] used to reach the emulated cloud endpoint,
// the closed set of target [Environment] values that gate which resources
// are provisioned, and the on-disk [Layout] of the infrastructure directory
// (secrets file, gateway definition, compose file, publish directory and
// deployment artifacts). Process environment and an optional .env file are
// merged with [LoadEnv].
package config
