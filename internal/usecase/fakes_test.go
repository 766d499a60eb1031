package usecase

import (
	"context"
	"os"

	"github.com/semmidev/jellysafe/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}

// callLog records cross-fake call order so tests can assert on sequencing.
type callLog struct {
	calls []string
}

func (l *callLog) record(call string) { l.calls = append(l.calls, call) }

type fakeController struct {
	log    *callLog
	stops  int
	starts int
}

func (c *fakeController) Stop(ctx context.Context) domain.StopOutcome {
	c.log.record("stop")
	c.stops++
	return domain.StopOutcomeStopped
}

func (c *fakeController) Start(ctx context.Context) domain.StartOutcome {
	c.log.record("start")
	c.starts++
	return domain.StartOutcomeStarted
}

type fakeProvisioner struct {
	log  *callLog
	path string
	err  error
}

func (p *fakeProvisioner) EnsureTool(ctx context.Context) (string, error) {
	p.log.record("ensure")
	return p.path, p.err
}

type fakeArchiver struct {
	log      *callLog
	exitCode int
	err      error

	// writeArchive makes Create produce an actual file, like 7z would
	writeArchive bool

	lastTool    string
	lastArchive string
	lastDir     string
}

func (a *fakeArchiver) Create(ctx context.Context, tool, archivePath, sourceDir string) (domain.CommandResult, error) {
	a.log.record("archive")
	a.lastTool, a.lastArchive, a.lastDir = tool, archivePath, sourceDir
	if a.err != nil {
		return domain.CommandResult{ExitCode: -1}, a.err
	}
	if a.writeArchive && a.exitCode == 0 {
		if err := os.WriteFile(archivePath, []byte("zip"), 0644); err != nil {
			return domain.CommandResult{ExitCode: -1}, err
		}
	}
	return domain.CommandResult{ExitCode: a.exitCode}, nil
}

func (a *fakeArchiver) Extract(ctx context.Context, tool, archivePath, destDir string) (domain.CommandResult, error) {
	a.log.record("extract")
	a.lastTool, a.lastArchive, a.lastDir = tool, archivePath, destDir
	if a.err != nil {
		return domain.CommandResult{ExitCode: -1}, a.err
	}
	return domain.CommandResult{ExitCode: a.exitCode}, nil
}

type fakePicker struct {
	path string
	ok   bool
	err  error
}

func (p *fakePicker) PickFolder() (string, bool, error) { return p.path, p.ok, p.err }

type fakeTasks struct {
	log          *callLog
	registered   []domain.TaskSpec
	deregistered []string
	registerErr  error
}

func (t *fakeTasks) Register(ctx context.Context, spec domain.TaskSpec) error {
	t.log.record("register")
	if t.registerErr != nil {
		return t.registerErr
	}
	t.registered = append(t.registered, spec)
	return nil
}

func (t *fakeTasks) Deregister(ctx context.Context, name string) error {
	t.log.record("deregister")
	t.deregistered = append(t.deregistered, name)
	return nil
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(ctx context.Context, message string) error {
	n.messages = append(n.messages, message)
	return nil
}
