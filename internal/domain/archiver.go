package domain

import "context"

// CommandResult carries the exit status of a finished external process.
// Exit code 0 is the only success criterion consulted.
type CommandResult struct {
	ExitCode int
}

func (r CommandResult) Success() bool { return r.ExitCode == 0 }

// Archiver creates and extracts compressed archive containers by invoking an
// external executable, identified by the tool path resolved at call time.
type Archiver interface {
	Create(ctx context.Context, tool, archivePath, sourceDir string) (CommandResult, error)
	Extract(ctx context.Context, tool, archivePath, destDir string) (CommandResult, error)
}

// ToolProvisioner guarantees a usable archiver executable is present on disk
// and returns its path. Repeated calls are idempotent: once the tool exists
// locally, no network access happens.
type ToolProvisioner interface {
	EnsureTool(ctx context.Context) (string, error)
}
