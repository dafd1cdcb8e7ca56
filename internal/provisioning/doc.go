// Package provisioning provides shared types, interfaces, and sequencing for
// provisioning the emulated cloud.
//
// # Subpackages
//
//   - storage/: object-storage buckets
//   - secrets/: secret store entries from the secrets file
//   - queues/: FIFO queues and their function event source mappings
//   - compute/: functions, invoke permissions, build-package-deploy
//   - gateway/: HTTP gateway creation, definition import, stage deployment
//
// # Core Types
//
// Context carries the run environment, credentials, state and observer.
// Phase defines a provisioning step with Name() and Provision() methods.
// RunPhases executes an ordered list of phases and stops at the first failure.
// Ensure runs a create-style call and treats the resource kind's conflict
// signal as success; every provisioner composes it.
package provisioning
