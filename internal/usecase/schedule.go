package usecase

import (
	"context"
	"fmt"

	"github.com/semmidev/jellysafe/internal/domain"
)

type Schedule struct {
	tasks     domain.TaskScheduler
	taskName  string
	startTime string
	command   string
	logger    Logger
}

func NewSchedule(
	tasks domain.TaskScheduler,
	taskName string,
	startTime string,
	command string,
	logger Logger,
) *Schedule {
	return &Schedule{
		tasks:     tasks,
		taskName:  taskName,
		startTime: startTime,
		command:   command,
		logger:    logger,
	}
}

// Execute maps a single-character frequency code to a recurrence and
// registers the unattended backup task under the fixed name, replacing any
// previous registration. A bad code changes nothing.
func (uc *Schedule) Execute(ctx context.Context, code string) error {
	freq, err := domain.ParseFrequency(code)
	if err != nil {
		return err
	}

	if err := uc.tasks.Deregister(ctx, uc.taskName); err != nil {
		uc.logger.Warnf("Could not remove previous schedule: %v", err)
	}

	spec := domain.TaskSpec{
		Name:      uc.taskName,
		Command:   uc.command,
		Frequency: freq,
		StartTime: uc.startTime,
	}
	if err := uc.tasks.Register(ctx, spec); err != nil {
		return fmt.Errorf("register schedule: %w", err)
	}

	uc.logger.Infof("Scheduled %s backup at %s (task %s)", freq, uc.startTime, uc.taskName)
	return nil
}
