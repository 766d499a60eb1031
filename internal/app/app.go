package app

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/semmidev/jellysafe/internal/adapter/locator"
	"github.com/semmidev/jellysafe/internal/adapter/notify"
	"github.com/semmidev/jellysafe/internal/adapter/provisioner"
	"github.com/semmidev/jellysafe/internal/adapter/service"
	"github.com/semmidev/jellysafe/internal/adapter/sevenzip"
	"github.com/semmidev/jellysafe/internal/adapter/tasks"
	"github.com/semmidev/jellysafe/internal/config"
	"github.com/semmidev/jellysafe/internal/domain"
	"github.com/semmidev/jellysafe/internal/infrastructure/execx"
	"github.com/semmidev/jellysafe/internal/infrastructure/logger"
	"github.com/semmidev/jellysafe/internal/infrastructure/scheduler"
	"github.com/semmidev/jellysafe/internal/usecase"
)

// Options select which mode one invocation runs in.
type Options struct {
	// BackupOnly runs a single unattended backup and exits; this is the
	// mode the scheduled task invokes.
	BackupOnly bool

	// Daemon keeps the process resident and fires backups on the
	// configured cron schedule instead of registering an OS task.
	Daemon bool
}

type App struct {
	config  *config.Config
	opts    Options
	logger  *logger.Logger
	dataDir string
	cron    *scheduler.Scheduler
	stdin   *bufio.Reader

	backupUC   *usecase.Backup
	restoreUC  *usecase.Restore
	scheduleUC *usecase.Schedule
}

func New(cfg *config.Config, opts Options) (*App, error) {
	log, err := logger.New(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Infof("Starting %s", cfg.App.Name)

	dataDir, err := locator.New(cfg.Jellyfin.DataDirs).Resolve()
	if err != nil {
		log.Errorf("No Jellyfin data directory found; checked: %v", cfg.Jellyfin.DataDirs)
		return nil, err
	}
	log.Infof("✓ Jellyfin data directory: %s", dataDir)

	runner := execx.New()
	services := service.New(&cfg.Jellyfin, runner, log)
	prov := provisioner.New(cfg.Backup.ToolDir, cfg.Backup.DownloadURL, runner, log)
	arch := sevenzip.New(runner)

	var notifier domain.Notifier
	if cfg.Notify.Telegram.Enabled {
		tg, err := notify.NewTelegram(&cfg.Notify.Telegram)
		if err != nil {
			log.Errorf("Failed to initialize Telegram: %v", err)
		} else {
			notifier = tg
			log.Infof("✓ Telegram notifications enabled")
		}
	}

	stdin := bufio.NewReader(os.Stdin)

	backupUC := usecase.NewBackup(
		dataDir,
		cfg.Backup.Destination,
		stdinFolderPicker{reader: stdin},
		services,
		prov,
		arch,
		notifier,
		log,
	)
	restoreUC := usecase.NewRestore(dataDir, services, prov, arch, log)
	scheduleUC := usecase.NewSchedule(
		tasks.New(runner),
		cfg.Schedule.TaskName,
		cfg.Schedule.StartTime,
		backupCommand(),
		log,
	)

	return &App{
		config:     cfg,
		opts:       opts,
		logger:     log,
		dataDir:    dataDir,
		cron:       scheduler.New(),
		stdin:      stdin,
		backupUC:   backupUC,
		restoreUC:  restoreUC,
		scheduleUC: scheduleUC,
	}, nil
}

// backupCommand is what the scheduled task re-invokes: this same binary in
// unattended backup-only mode.
func backupCommand() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return fmt.Sprintf(`"%s" --backup`, exe)
}

func (a *App) Run(ctx context.Context) error {
	switch {
	case a.opts.BackupOnly:
		return a.runUnattendedBackup(ctx)
	case a.opts.Daemon || a.config.Daemon.Enabled:
		return a.runDaemon(ctx)
	default:
		return a.runMenu(ctx)
	}
}

// runUnattendedBackup reports a failed workflow instead of returning it:
// only a missing data directory at startup may end the process nonzero.
func (a *App) runUnattendedBackup(ctx context.Context) error {
	result, err := a.backupUC.Execute(ctx, false)
	if err != nil {
		a.logger.Errorf("Unattended backup of %s failed: %v", a.dataDir, err)
		return nil
	}
	a.logger.Infof("Unattended backup of %s done: %s (service %s)", a.dataDir, result.ArchivePath, result.StartOutcome)
	return nil
}

func (a *App) runDaemon(ctx context.Context) error {
	spec := a.config.Daemon.Schedule
	a.logger.Infof("Daemon mode, backup schedule: %s", spec)

	err := a.cron.AddJob(spec, func(ctx context.Context) error {
		a.logger.Infof("=== Triggered scheduled backup ===")
		if _, err := a.backupUC.Execute(ctx, false); err != nil {
			a.logger.Errorf("Scheduled backup failed: %v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backup: %w", err)
	}

	a.cron.Start()
	<-ctx.Done()
	return nil
}

func (a *App) Shutdown() {
	a.logger.Infof("Shutting down...")
	a.cron.Stop()
	a.logger.Close()
}
