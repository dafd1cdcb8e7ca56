// Package proxy serves a function behind a minimal local HTTP endpoint.
//
// GET /<route>?number=N is translated into an API Gateway proxy event and
// handed to an Invoker, either the deployed function in the emulator or a
// handler running in the same process. The function's response body is
// returned as application/json. Request counts and latencies are exported
// on /metrics.
package proxy
