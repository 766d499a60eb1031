// Package tasks registers recurring unattended backups with the Windows
// Task Scheduler via schtasks.
package tasks

import (
	"context"
	"fmt"

	"github.com/semmidev/jellysafe/internal/domain"
	"github.com/semmidev/jellysafe/internal/infrastructure/execx"
)

type Scheduler struct {
	runner execx.Runner
}

func New(runner execx.Runner) *Scheduler {
	return &Scheduler{runner: runner}
}

// Register creates the task, replacing any existing one with the same name.
// The task runs at the user's highest available privilege level so it can
// stop the Jellyfin service.
func (s *Scheduler) Register(ctx context.Context, spec domain.TaskSpec) error {
	args := []string{
		"/Create", "/F",
		"/TN", spec.Name,
		"/TR", spec.Command,
		"/SC", string(spec.Frequency),
		"/ST", spec.StartTime,
		"/RL", "HIGHEST",
	}

	res := s.runner.Run(ctx, "schtasks", args...)
	if res.Err != nil {
		return fmt.Errorf("run schtasks: %w", res.Err)
	}
	if !res.Success() {
		return fmt.Errorf("schtasks create exited with code %d: %s", res.ExitCode, res.Output)
	}
	return nil
}

// Deregister removes the named task. A task that does not exist is not an
// error; the nonzero exit schtasks gives for that case is swallowed.
func (s *Scheduler) Deregister(ctx context.Context, name string) error {
	res := s.runner.Run(ctx, "schtasks", "/Delete", "/TN", name, "/F")
	if res.Err != nil {
		return fmt.Errorf("run schtasks: %w", res.Err)
	}
	return nil
}
