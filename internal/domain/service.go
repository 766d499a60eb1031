package domain

import "context"

// StopOutcome reports what a stop attempt actually did.
type StopOutcome int

const (
	StopOutcomeStopped StopOutcome = iota
	StopOutcomeNotRunning
	StopOutcomeFailed
)

func (o StopOutcome) String() string {
	switch o {
	case StopOutcomeStopped:
		return "stopped"
	case StopOutcomeNotRunning:
		return "not running"
	default:
		return "stop failed"
	}
}

// StartOutcome reports what a start attempt actually did.
type StartOutcome int

const (
	StartOutcomeStarted StartOutcome = iota
	StartOutcomeManualStartRequired
	StartOutcomeFailed
)

func (o StartOutcome) String() string {
	switch o {
	case StartOutcomeStarted:
		return "started"
	case StartOutcomeManualStartRequired:
		return "manual start required"
	default:
		return "start failed"
	}
}

// ServiceController stops and starts the Jellyfin service or process. Both
// operations are best-effort and report an outcome instead of returning an
// error, so backup and restore always run to completion and restart the
// service no matter what the stop step did.
type ServiceController interface {
	Stop(ctx context.Context) StopOutcome
	Start(ctx context.Context) StartOutcome
}
