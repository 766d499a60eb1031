package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/semmidev/jellysafe/internal/domain"
)

type Logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// FolderPicker lets the presentation layer choose a destination directory.
// ok is false when the user cancelled.
type FolderPicker interface {
	PickFolder() (path string, ok bool, err error)
}

type Backup struct {
	dataDir     string
	defaultDest string
	picker      FolderPicker
	services    domain.ServiceController
	provisioner domain.ToolProvisioner
	archiver    domain.Archiver
	notifier    domain.Notifier
	logger      Logger
	now         func() time.Time
}

type BackupResult struct {
	ArchivePath  string
	StopOutcome  domain.StopOutcome
	StartOutcome domain.StartOutcome
}

func NewBackup(
	dataDir string,
	defaultDest string,
	picker FolderPicker,
	services domain.ServiceController,
	provisioner domain.ToolProvisioner,
	archiver domain.Archiver,
	notifier domain.Notifier,
	logger Logger,
) *Backup {
	return &Backup{
		dataDir:     dataDir,
		defaultDest: defaultDest,
		picker:      picker,
		services:    services,
		provisioner: provisioner,
		archiver:    archiver,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Execute runs one backup: stop Jellyfin, archive the data directory into a
// timestamped zip, start Jellyfin again. The restart happens no matter how
// the archive step went. With interactive set, the destination comes from
// the folder picker instead of the default directory.
func (uc *Backup) Execute(ctx context.Context, interactive bool) (result *BackupResult, err error) {
	start := time.Now()
	result = &BackupResult{}

	uc.logger.Infof("Starting backup of %s", uc.dataDir)
	result.StopOutcome = uc.services.Stop(ctx)

	defer func() {
		result.StartOutcome = uc.services.Start(ctx)
		uc.notifyOutcome(ctx, result, err)
	}()

	destDir, err := uc.resolveDestination(interactive)
	if err != nil {
		return result, err
	}

	if err = os.MkdirAll(destDir, 0755); err != nil {
		return result, fmt.Errorf("create destination directory: %w", err)
	}

	archivePath := filepath.Join(destDir, uc.archiveName())

	var tool string
	tool, err = uc.provisioner.EnsureTool(ctx)
	if err != nil {
		return result, fmt.Errorf("backup failed: %w", err)
	}

	uc.logger.Infof("Creating archive: %s", archivePath)
	res, archiveErr := uc.archiver.Create(ctx, tool, archivePath, uc.dataDir)
	if archiveErr != nil {
		err = fmt.Errorf("backup failed: %w", archiveErr)
		return result, err
	}
	if !res.Success() {
		err = fmt.Errorf("backup failed: archiver exited with code %d", res.ExitCode)
		return result, err
	}

	result.ArchivePath = archivePath
	uc.logger.Infof("Backup completed in %s: %s",
		time.Since(start).Round(time.Second), archivePath)

	return result, nil
}

func (uc *Backup) resolveDestination(interactive bool) (string, error) {
	if !interactive {
		return uc.defaultDest, nil
	}

	dir, ok, err := uc.picker.PickFolder()
	if err != nil {
		return "", fmt.Errorf("pick destination: %w", err)
	}
	if !ok {
		return "", domain.ErrNoDestination
	}
	return dir, nil
}

// archiveName is timestamped to the second, so names sort chronologically.
// Two backups inside the same second would collide; in practice runs are
// minutes apart.
func (uc *Backup) archiveName() string {
	return fmt.Sprintf("JellyfinBackup_%s.zip", uc.now().Format("20060102_150405"))
}

func (uc *Backup) notifyOutcome(ctx context.Context, result *BackupResult, runErr error) {
	if uc.notifier == nil {
		return
	}

	var message string
	if runErr != nil {
		message = fmt.Sprintf("❌ Jellyfin backup failed: %v", runErr)
	} else {
		sizeMB := 0.0
		if info, err := os.Stat(result.ArchivePath); err == nil {
			sizeMB = float64(info.Size()) / (1024 * 1024)
		}
		message = fmt.Sprintf("✅ Jellyfin backup created: %s (%.2f MB)",
			filepath.Base(result.ArchivePath), sizeMB)
	}

	if err := uc.notifier.Notify(ctx, message); err != nil {
		uc.logger.Warnf("Notification failed: %v", err)
	}
}
