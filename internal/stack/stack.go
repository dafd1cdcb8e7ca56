package stack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/packaging"
	"github.com/imamik/iacup/internal/provisioning/compute"
	"github.com/imamik/iacup/internal/provisioning/queues"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Stack is the set of resources to provision.
type Stack struct {
	Gateway   Gateway    `yaml:"gateway"`
	Functions []Function `yaml:"functions" validate:"dive"`
	Queues    []Queue    `yaml:"queues" validate:"dive"`
	Buckets   []string   `yaml:"buckets" validate:"dive,required"`
}

// Gateway configures the HTTP gateway.
type Gateway struct {
	Prefix string `yaml:"prefix" validate:"required"`
	// Definition is resolved inside the aws_localstack directory unless absolute.
	Definition string `yaml:"definition" validate:"required"`
}

// Function configures one deployed function.
type Function struct {
	Name     string          `yaml:"name" validate:"required"`
	MemoryMB int32           `yaml:"memory_mb"`
	Timeout  time.Duration   `yaml:"timeout"`
	Handler  string          `yaml:"handler,omitempty"`
	Runtime  string          `yaml:"runtime,omitempty"`
	Build    packaging.Build `yaml:"build"`
}

// Queue configures one FIFO queue. The queue name is either given directly
// or read from the environment variable NameEnv.
type Queue struct {
	Name                    string         `yaml:"name,omitempty" validate:"required_without=NameEnv"`
	NameEnv                 string         `yaml:"name_env,omitempty" validate:"required_without=Name"`
	Function                string         `yaml:"function" validate:"required"`
	VisibilityTimeout       time.Duration  `yaml:"visibility_timeout"`
	BatchSize               int32          `yaml:"batch_size"`
	BatchWindow             *time.Duration `yaml:"batch_window,omitempty"`
	ReportBatchItemFailures bool           `yaml:"report_batch_item_failures,omitempty"`
}

// Default returns the built-in stack.
func Default() Stack {
	return Stack{
		Gateway: Gateway{
			Prefix:     "tpn",
			Definition: "tpn-stage-swagger-apigateway.json",
		},
		Functions: []Function{{
			Name:     "iac-example-fibonacci",
			MemoryMB: 256,
			Timeout:  900 * time.Second,
			Handler:  "IaC_example::IaC_example.LambdaApp::HandlerAsync",
			Build:    packaging.Build{Toolchain: packaging.ToolchainDotnet, Project: "."},
		}},
		Queues: []Queue{
			{
				NameEnv:           "REGULATION_SQS_CODE_NAME",
				Function:          "tpn-regulation",
				VisibilityTimeout: 300 * time.Second,
				BatchSize:         10,
			},
			{
				NameEnv:           "DDDPARSER_SQS_CODE_NAME",
				Function:          "tpn-ddd-parser",
				VisibilityTimeout: 600 * time.Second,
				BatchSize:         10,
			},
		},
	}
}

// file mirrors Stack with optional sections, so a file only replaces what it sets.
type file struct {
	Gateway   *Gateway    `yaml:"gateway"`
	Functions *[]Function `yaml:"functions"`
	Queues    *[]Queue    `yaml:"queues"`
	Buckets   *[]string   `yaml:"buckets"`
}

// Load reads the stack file at path over the defaults. A missing file
// yields Default().
func Load(path string) (Stack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Stack{}, fmt.Errorf("failed to read stack file %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Stack{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a stack document over the defaults and validates the result.
func Parse(data []byte) (Stack, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Stack{}, fmt.Errorf("failed to parse stack file: %w", err)
	}

	s := Default()
	if f.Gateway != nil {
		s.Gateway = *f.Gateway
	}
	if f.Functions != nil {
		s.Functions = *f.Functions
	}
	if f.Queues != nil {
		s.Queues = *f.Queues
	}
	if f.Buckets != nil {
		s.Buckets = *f.Buckets
	}

	if err := s.Validate(); err != nil {
		return Stack{}, err
	}
	return s, nil
}

// Validate checks the stack's field constraints.
func (s Stack) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid stack: %w", err)
	}
	return nil
}

// FunctionSpecs builds the compute specs of the stack's functions for env,
// selecting function variables from vars.
func (s Stack) FunctionSpecs(env config.Environment, vars config.Vars, layout config.Layout) ([]compute.FunctionSpec, error) {
	specs := make([]compute.FunctionSpec, 0, len(s.Functions))
	for _, fn := range s.Functions {
		build := fn.Build
		if build.Toolchain == packaging.ToolchainDotnet {
			build.Project = layout.ProjectPath(build.Project)
		}
		spec, err := compute.NewFunctionSpec(compute.FunctionOptions{
			Name:        fn.Name,
			MemoryMB:    fn.MemoryMB,
			Timeout:     fn.Timeout,
			Environment: env,
			Handler:     fn.Handler,
			Runtime:     fn.Runtime,
			Build:       build,
			Env:         vars,
		})
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// QueueSpecs resolves the stack's queues, reading env-provided names from vars.
func (s Stack) QueueSpecs(vars config.Vars) ([]queues.Spec, error) {
	specs := make([]queues.Spec, 0, len(s.Queues))
	for _, q := range s.Queues {
		name := q.Name
		if q.NameEnv != "" {
			name = vars[q.NameEnv]
			if name == "" {
				return nil, fmt.Errorf("queue name variable %s is not set", q.NameEnv)
			}
		}
		specs = append(specs, queues.Spec{
			Name:                    name,
			VisibilityTimeout:       q.VisibilityTimeout,
			BatchSize:               q.BatchSize,
			BatchWindow:             q.BatchWindow,
			FunctionName:            q.Function,
			ReportBatchItemFailures: q.ReportBatchItemFailures,
		})
	}
	return specs, nil
}

// Toolchains returns the distinct build toolchains of the stack's functions
// in sorted order.
func (s Stack) Toolchains() []string {
	seen := make(map[string]struct{}, len(s.Functions))
	var out []string
	for _, fn := range s.Functions {
		name := string(fn.Build.Toolchain)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
