package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/semmidev/jellysafe/internal/domain"
)

type Restore struct {
	dataDir     string
	services    domain.ServiceController
	provisioner domain.ToolProvisioner
	archiver    domain.Archiver
	logger      Logger
}

type RestoreResult struct {
	Cancelled    bool
	StopOutcome  domain.StopOutcome
	StartOutcome domain.StartOutcome
}

func NewRestore(
	dataDir string,
	services domain.ServiceController,
	provisioner domain.ToolProvisioner,
	archiver domain.Archiver,
	logger Logger,
) *Restore {
	return &Restore{
		dataDir:     dataDir,
		services:    services,
		provisioner: provisioner,
		archiver:    archiver,
		logger:      logger,
	}
}

// Execute replaces the data directory contents with the archive's. An empty
// archivePath means the user cancelled the file selection: nothing is
// touched, no service control happens. Once the directory is cleared there
// is no rollback; a failed extract leaves it empty or partial.
func (uc *Restore) Execute(ctx context.Context, archivePath string) (result *RestoreResult, err error) {
	result = &RestoreResult{}

	if archivePath == "" {
		result.Cancelled = true
		uc.logger.Infof("Restore cancelled, nothing changed")
		return result, nil
	}

	uc.logger.Infof("Restoring %s into %s", archivePath, uc.dataDir)
	result.StopOutcome = uc.services.Stop(ctx)

	defer func() {
		result.StartOutcome = uc.services.Start(ctx)
	}()

	if err = clearDirectory(uc.dataDir); err != nil {
		return result, fmt.Errorf("clear data directory: %w", err)
	}

	var tool string
	tool, err = uc.provisioner.EnsureTool(ctx)
	if err != nil {
		return result, fmt.Errorf("restore failed: %w", err)
	}

	res, extractErr := uc.archiver.Extract(ctx, tool, archivePath, uc.dataDir)
	if extractErr != nil {
		err = fmt.Errorf("restore failed: %w", extractErr)
		return result, err
	}
	if !res.Success() {
		err = fmt.Errorf("restore failed: archiver exited with code %d", res.ExitCode)
		return result, err
	}

	uc.logger.Infof("Restore completed into %s", uc.dataDir)
	return result, nil
}

// clearDirectory removes everything inside dir but keeps dir itself.
func clearDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
