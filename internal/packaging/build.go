package packaging

import (
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/imamik/iacup/internal/shell"
)

// Toolchain names a supported build tool.
type Toolchain string

const (
	// ToolchainDotnet publishes a .NET project.
	ToolchainDotnet Toolchain = "dotnet"
	// ToolchainGo compiles a Go main package into a bootstrap binary.
	ToolchainGo Toolchain = "go"
)

// Default runtimes and handlers per toolchain.
const (
	RuntimeDotnet = "dotnet8"
	RuntimeGo     = "provided.al2023"
	HandlerGo     = "bootstrap"
	DefaultGoArch = "amd64"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Build describes how to build one function project.
type Build struct {
	Toolchain Toolchain `validate:"required,oneof=dotnet go" yaml:"toolchain"`
	// Project is the .NET project path or the Go package path.
	Project string `validate:"required" yaml:"project"`
	// Arch is the target GOARCH of Go builds; empty means amd64.
	Arch string `validate:"omitempty,oneof=amd64 arm64" yaml:"arch,omitempty"`
}

// Validate checks the build's field constraints.
func (b Build) Validate() error {
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("invalid build: %w", err)
	}
	return nil
}

// Runtime returns the function runtime matching the toolchain.
func (b Build) Runtime() string {
	if b.Toolchain == ToolchainGo {
		return RuntimeGo
	}
	return RuntimeDotnet
}

// command returns the release build command writing into publishDir and
// the environment overlay it needs.
func (b Build) command(publishDir string) (string, map[string]string) {
	switch b.Toolchain {
	case ToolchainGo:
		arch := b.Arch
		if arch == "" {
			arch = DefaultGoArch
		}
		line := shell.Join("go", "build", "-trimpath", "-ldflags", "-s -w",
			"-o", filepath.Join(publishDir, HandlerGo), b.Project)
		return line, map[string]string{
			"GOOS":        "linux",
			"GOARCH":      arch,
			"CGO_ENABLED": "0",
		}
	default:
		return shell.Join("dotnet", "publish", b.Project, "-c", "Release", "-o", publishDir), nil
	}
}
