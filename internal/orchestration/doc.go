// Package orchestration coordinates provisioning of the emulated cloud.
//
// This package orchestrates the provisioning workflow by delegating to the
// provisioners in the internal/provisioning subpackages. It defines the
// execution order and which environments run which phases.
//
// # Workflow
//
// Build resolves its phases from a fixed environment table:
//
//	local      → secrets
//	staging    → secrets, functions, gateway
//	production → secrets
//
// The functions phase rebuilds and packages each function, creates it and
// grants the gateway permission to invoke it. The gateway phase creates or
// reuses the REST API, imports its definition and deploys a stage.
//
// CreateQueues and CreateBuckets are separate operations. Queues bind to
// functions, so CreateQueues must run after those functions exist.
//
// # Usage
//
//	orch, err := orchestration.Setup(ctx, orchestration.SetupOptions{Environment: env, Root: "."})
//	if err != nil { ... }
//	err = orch.Build(ctx)
//
// Every operation is idempotent: resources that already exist are logged and
// left as they are.
package orchestration
