package config

import (
	"fmt"
	"path/filepath"
)

// Fixed names inside the infrastructure directory.
const (
	InfrastructureDirName = "infrastructure"
	LocalstackDirName     = "aws_localstack"
	PublishDirName        = "publish"
	ComposeFileName       = "docker-compose.yml"
	DotEnvFileName        = ".env"
	StackFileName         = "iacup.yaml"
)

// Layout locates the files iacup reads and writes. All paths are derived
// from Root, the project directory holding function sources.
type Layout struct {
	Root string
}

// NewLayout returns a Layout rooted at the absolute form of root.
func NewLayout(root string) (Layout, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to resolve root directory %s: %w", root, err)
	}
	return Layout{Root: abs}, nil
}

// InfrastructureDir holds the compose file, .env, publish output and artifacts.
func (l Layout) InfrastructureDir() string {
	return filepath.Join(l.Root, InfrastructureDirName)
}

// LocalstackDir holds the secrets file and the gateway definition.
func (l Layout) LocalstackDir() string {
	return filepath.Join(l.InfrastructureDir(), LocalstackDirName)
}

// PublishDir is the fixed output directory of function builds.
func (l Layout) PublishDir() string {
	return filepath.Join(l.InfrastructureDir(), PublishDirName)
}

// ComposeFile is the container definition of the emulation environment.
func (l Layout) ComposeFile() string {
	return filepath.Join(l.InfrastructureDir(), ComposeFileName)
}

// DotEnvFile is the optional .env file merged into the run environment.
func (l Layout) DotEnvFile() string {
	return filepath.Join(l.InfrastructureDir(), DotEnvFileName)
}

// StackFile is the optional stack definition overriding the defaults.
func (l Layout) StackFile() string {
	return filepath.Join(l.InfrastructureDir(), StackFileName)
}

// GatewayDefinition resolves a definition file name inside LocalstackDir.
func (l Layout) GatewayDefinition(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.LocalstackDir(), name)
}

// ArtifactPath is the deterministic deployment artifact path of a function.
func (l Layout) ArtifactPath(functionName string) string {
	return filepath.Join(l.InfrastructureDir(), fmt.Sprintf("lambda-%s.zip", functionName))
}

// ProjectPath resolves a function project path relative to Root.
func (l Layout) ProjectPath(project string) string {
	if filepath.IsAbs(project) {
		return project
	}
	return filepath.Join(l.Root, project)
}
