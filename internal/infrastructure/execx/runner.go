// Package execx runs external commands and reports their exit codes as
// values instead of errors, since exit codes are the success signal for
// everything this program shells out to.
package execx

import (
	"context"
	"errors"
	"os/exec"
)

// Result is the outcome of a command invocation. Err is set only when the
// command could not be launched at all; a nonzero ExitCode with a nil Err
// means the command ran and failed.
type Result struct {
	ExitCode int
	Output   []byte
	Err      error
}

func (r Result) Success() bool { return r.Err == nil && r.ExitCode == 0 }

// Runner abstracts process execution so adapters can be tested with fakes.
type Runner interface {
	// Run executes a command, waits for it, and captures combined output.
	Run(ctx context.Context, name string, args ...string) Result

	// StartDetached launches a command and does not wait for it.
	StartDetached(name string, args ...string) error
}

type execRunner struct{}

// New returns a Runner backed by os/exec.
func New() Runner { return execRunner{} }

func (execRunner) Run(ctx context.Context, name string, args ...string) Result {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode(), Output: output}
		}
		return Result{ExitCode: -1, Output: output, Err: err}
	}
	return Result{Output: output}
}

func (execRunner) StartDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
