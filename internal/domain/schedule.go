package domain

import "context"

// Frequency is a task-scheduler recurrence kind.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyOnce    Frequency = "ONCE"
)

// ParseFrequency maps a single-character menu code to a recurrence.
// The "y" code registers a single future run, not an annual one; existing
// users depend on that behavior, so it is kept.
func ParseFrequency(code string) (Frequency, error) {
	switch code {
	case "d":
		return FrequencyDaily, nil
	case "w":
		return FrequencyWeekly, nil
	case "m":
		return FrequencyMonthly, nil
	case "y":
		return FrequencyOnce, nil
	default:
		return "", ErrInvalidFrequency
	}
}

// TaskSpec describes one unattended-execution registration: run Command at
// StartTime (HH:MM local) with the given recurrence, elevated to the user's
// highest available privilege level.
type TaskSpec struct {
	Name      string
	Command   string
	Frequency Frequency
	StartTime string
}

// TaskScheduler persists recurring registrations in the operating system's
// task-scheduling subsystem. Deregistering an absent task is not an error.
type TaskScheduler interface {
	Register(ctx context.Context, spec TaskSpec) error
	Deregister(ctx context.Context, name string) error
}

// Notifier delivers a short out-of-band message about a backup outcome.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
