// Package service stops and starts the Jellyfin server around backup and
// restore operations, preferring the managed Windows service and falling
// back to plain process control.
package service

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/semmidev/jellysafe/internal/config"
	"github.com/semmidev/jellysafe/internal/domain"
	"github.com/semmidev/jellysafe/internal/infrastructure/execx"
)

type Logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

type Controller struct {
	serviceName string
	processName string
	executable  string
	runner      execx.Runner
	logger      Logger

	// settleDelay gives file handles time to release after a stop before
	// the archiver touches the data directory. Heuristic, not a guarantee.
	settleDelay time.Duration

	stopPollInterval time.Duration
	stopPollAttempts int
}

func New(cfg *config.JellyfinConfig, runner execx.Runner, logger Logger) *Controller {
	return &Controller{
		serviceName:      cfg.ServiceName,
		processName:      cfg.ProcessName,
		executable:       cfg.Executable,
		runner:           runner,
		logger:           logger,
		settleDelay:      3 * time.Second,
		stopPollInterval: time.Second,
		stopPollAttempts: 30,
	}
}

type strategyOutcome int

const (
	strategySucceeded strategyOutcome = iota
	strategyNotApplicable
	strategyFailed
)

type strategy struct {
	name string
	run  func(ctx context.Context) strategyOutcome
}

// Stop halts Jellyfin through the first applicable strategy: managed service
// first, then direct process termination. Best-effort: the caller gets an
// outcome, never an error, so backup and restore always proceed.
func (c *Controller) Stop(ctx context.Context) domain.StopOutcome {
	strategies := []strategy{
		{"service", c.stopService},
		{"process", c.stopProcess},
	}

	for _, s := range strategies {
		switch s.run(ctx) {
		case strategySucceeded:
			c.logger.Infof("Jellyfin stopped (%s)", s.name)
			time.Sleep(c.settleDelay)
			return domain.StopOutcomeStopped
		case strategyFailed:
			c.logger.Errorf("Stopping Jellyfin via %s failed", s.name)
			return domain.StopOutcomeFailed
		case strategyNotApplicable:
			continue
		}
	}

	c.logger.Infof("Jellyfin is not running, nothing to stop")
	return domain.StopOutcomeNotRunning
}

// Start brings Jellyfin back: the managed service if registered, else a
// detached launch of the user-scoped executable, else the user is told to
// start it by hand.
func (c *Controller) Start(ctx context.Context) domain.StartOutcome {
	strategies := []strategy{
		{"service", c.startService},
		{"process", c.startProcess},
	}

	for _, s := range strategies {
		switch s.run(ctx) {
		case strategySucceeded:
			c.logger.Infof("Jellyfin started (%s)", s.name)
			return domain.StartOutcomeStarted
		case strategyFailed:
			c.logger.Errorf("Starting Jellyfin via %s failed", s.name)
			return domain.StartOutcomeFailed
		case strategyNotApplicable:
			continue
		}
	}

	c.logger.Warnf("Could not start Jellyfin automatically, please start it manually")
	return domain.StartOutcomeManualStartRequired
}

func (c *Controller) serviceRegistered(ctx context.Context) bool {
	return c.runner.Run(ctx, "sc", "query", c.serviceName).Success()
}

func (c *Controller) stopService(ctx context.Context) strategyOutcome {
	if !c.serviceRegistered(ctx) {
		return strategyNotApplicable
	}

	if res := c.runner.Run(ctx, "sc", "stop", c.serviceName); !res.Success() {
		return strategyFailed
	}

	c.waitForServiceStop(ctx)
	return strategySucceeded
}

// waitForServiceStop polls the service state until it reports STOPPED.
// Giving up after the poll budget is not fatal; the settle delay still
// applies afterwards.
func (c *Controller) waitForServiceStop(ctx context.Context) {
	for i := 0; i < c.stopPollAttempts; i++ {
		res := c.runner.Run(ctx, "sc", "query", c.serviceName)
		if strings.Contains(string(res.Output), "STOPPED") {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.stopPollInterval):
		}
	}
	c.logger.Warnf("Service %s did not report STOPPED in time", c.serviceName)
}

func (c *Controller) stopProcess(ctx context.Context) strategyOutcome {
	if !c.processRunning(ctx) {
		return strategyNotApplicable
	}

	if res := c.runner.Run(ctx, "taskkill", "/F", "/IM", c.processName); !res.Success() {
		return strategyFailed
	}
	return strategySucceeded
}

func (c *Controller) processRunning(ctx context.Context) bool {
	res := c.runner.Run(ctx, "tasklist", "/FI", "IMAGENAME eq "+c.processName, "/NH")
	if !res.Success() {
		return false
	}
	return strings.Contains(string(res.Output), c.processName)
}

func (c *Controller) startService(ctx context.Context) strategyOutcome {
	if !c.serviceRegistered(ctx) {
		return strategyNotApplicable
	}

	if res := c.runner.Run(ctx, "sc", "start", c.serviceName); !res.Success() {
		return strategyFailed
	}
	return strategySucceeded
}

func (c *Controller) startProcess(ctx context.Context) strategyOutcome {
	if c.executable == "" {
		return strategyNotApplicable
	}
	if _, err := os.Stat(c.executable); err != nil {
		return strategyNotApplicable
	}

	if err := c.runner.StartDetached(c.executable); err != nil {
		return strategyFailed
	}
	return strategySucceeded
}
