// Package stack defines which functions, queues, buckets and gateway iacup
// provisions.
//
// Default returns the built-in stack. A stack file (iacup.yaml in the
// infrastructure directory) replaces any section it sets:
//
//	gateway:
//	  prefix: tpn
//	  definition: tpn-stage-swagger-apigateway.json
//	functions:
//	  - name: iac-example-fibonacci
//	    memory_mb: 256
//	    timeout: 900s
//	    build:
//	      toolchain: go
//	      project: ./cmd/fibonacci
//	queues:
//	  - name_env: REGULATION_SQS_CODE_NAME
//	    function: tpn-regulation
//	    visibility_timeout: 300s
//	    batch_size: 10
//	buckets:
//	  - artifacts
package stack
