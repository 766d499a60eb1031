// Package sevenzip invokes a 7-Zip executable to create and extract zip
// archives. The executable's exit code is the sole success signal.
package sevenzip

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/semmidev/jellysafe/internal/domain"
	"github.com/semmidev/jellysafe/internal/infrastructure/execx"
)

type Archiver struct {
	runner execx.Runner
}

func New(runner execx.Runner) *Archiver {
	return &Archiver{runner: runner}
}

// Create archives the entire sourceDir tree into archivePath as a zip
// container with moderate deflate compression, without prompting.
func (a *Archiver) Create(ctx context.Context, tool, archivePath, sourceDir string) (domain.CommandResult, error) {
	args := []string{
		"a",
		"-tzip",
		"-mx=5",
		"-mm=Deflate",
		"-y",
		archivePath,
		filepath.Join(sourceDir, "*"),
	}

	res := a.runner.Run(ctx, tool, args...)
	if res.Err != nil {
		return domain.CommandResult{ExitCode: -1}, fmt.Errorf("run archiver: %w", res.Err)
	}
	return domain.CommandResult{ExitCode: res.ExitCode}, nil
}

// Extract unpacks archivePath into destDir with full paths, without
// prompting.
func (a *Archiver) Extract(ctx context.Context, tool, archivePath, destDir string) (domain.CommandResult, error) {
	args := []string{
		"x",
		archivePath,
		"-o" + destDir,
		"-y",
	}

	res := a.runner.Run(ctx, tool, args...)
	if res.Err != nil {
		return domain.CommandResult{ExitCode: -1}, fmt.Errorf("run archiver: %w", res.Err)
	}
	return domain.CommandResult{ExitCode: res.ExitCode}, nil
}
