// Package gateway creates the HTTP gateway in front of the functions.
//
// The gateway is a REST API named {prefix}-{environment}, tagged with the
// same value as its custom id. Provisioning reuses an API that already
// carries that id, imports the definition document in overwrite mode, and
// deploys a stage named after the environment.
package gateway
