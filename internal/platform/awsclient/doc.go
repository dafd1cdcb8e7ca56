// Package awsclient builds SDK clients for the emulated cloud and classifies the
// errors they return.
//
// Every client is configured from a single [config.Credentials] value: static
// keys, the configured region and the emulator endpoint as base endpoint.
// SDK-level retries are disabled; a failed call surfaces immediately.
//
// The Is*Conflict helpers recognise the per-service "already exists" signal,
// checking typed SDK errors first and falling back to API error codes for
// emulators that return generic errors.
package awsclient
