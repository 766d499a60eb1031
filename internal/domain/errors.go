package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDataDirNotFound means no candidate Jellyfin data directory exists.
	// It is fatal: nothing else in the program can work without one.
	ErrDataDirNotFound = errors.New("no jellyfin data directory found")

	// ErrNoDestination means the user cancelled the destination folder choice.
	ErrNoDestination = errors.New("no backup destination selected")

	// ErrInvalidFrequency means the schedule code is not one of d/w/m/y.
	ErrInvalidFrequency = errors.New("invalid schedule frequency")
)

// AcquisitionError reports that the archiver executable could not be
// provisioned. It carries the expected tool directory and download source so
// the user can remediate by hand.
type AcquisitionError struct {
	ToolDir   string
	SourceURL string
	Err       error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("could not provision 7-Zip in %s (source: %s): %v; place 7z.exe or 7za.exe there manually to proceed",
		e.ToolDir, e.SourceURL, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }
