package packaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/imamik/iacup/internal/provisioning"
	"github.com/imamik/iacup/internal/shell"
)

// Pipeline builds function projects into a fixed publish directory and
// archives the result.
type Pipeline struct {
	runner     shell.Runner
	publishDir string
	logger     *slog.Logger
}

// NewPipeline creates a packaging pipeline.
func NewPipeline(runner shell.Runner, publishDir string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{runner: runner, publishDir: publishDir, logger: logger}
}

// BuildAndPackage runs the release build and archives the publish directory
// into outputZip. A failed build and a missing publish directory both yield a
// *provisioning.PreconditionError, and no archive is written.
func (p *Pipeline) BuildAndPackage(ctx context.Context, build Build, outputZip string) error {
	if err := build.Validate(); err != nil {
		return err
	}

	line, env := build.command(p.publishDir)
	p.logger.Info("Building function", "toolchain", build.Toolchain, "project", build.Project)

	if err := p.runner.Run(ctx, line, env); err != nil {
		return &provisioning.PreconditionError{Path: p.publishDir, Err: fmt.Errorf("build failed: %w", err)}
	}

	info, err := os.Stat(p.publishDir)
	if err != nil {
		return &provisioning.PreconditionError{Path: p.publishDir, Err: err}
	}
	if !info.IsDir() {
		return &provisioning.PreconditionError{Path: p.publishDir, Err: errors.New("not a directory")}
	}

	p.logger.Info("Zipping build output", "from", p.publishDir, "to", outputZip)
	if err := Archive(p.publishDir, outputZip); err != nil {
		return err
	}
	p.logger.Info("Function artifact created", "path", outputZip)
	return nil
}
