package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/semmidev/jellysafe/internal/domain"
	"github.com/semmidev/jellysafe/internal/usecase"
)

// The interactive surface below is deliberately thin: it only gathers input
// and hands it to the use cases, which own all sequencing and error policy.

func (a *App) runMenu(ctx context.Context) error {
	reader := a.stdin

	for {
		fmt.Println()
		fmt.Println("=== jellysafe ===")
		fmt.Println("  1) Backup to default folder")
		fmt.Println("  2) Backup to a chosen folder")
		fmt.Println("  3) Restore from an archive")
		fmt.Println("  4) Schedule unattended backups")
		fmt.Println("  5) Exit")
		fmt.Print("> ")

		choice, err := readLine(reader)
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			a.reportBackup(a.backupUC.Execute(ctx, false))
		case "2":
			a.reportBackup(a.backupUC.Execute(ctx, true))
		case "3":
			fmt.Print("Archive to restore (empty to cancel): ")
			archive, err := readLine(reader)
			if err != nil {
				return err
			}
			a.reportRestore(ctx, archive)
		case "4":
			fmt.Print("Frequency: (d)aily, (w)eekly, (m)onthly, (y): ")
			code, err := readLine(reader)
			if err != nil {
				return err
			}
			if err := a.scheduleUC.Execute(ctx, code); err != nil {
				fmt.Printf("Scheduling failed: %v\n", err)
			} else {
				fmt.Println("Schedule registered.")
			}
		case "5", "q":
			return nil
		default:
			fmt.Println("Unknown choice.")
		}
	}
}

func (a *App) reportBackup(result *usecase.BackupResult, err error) {
	switch {
	case errors.Is(err, domain.ErrNoDestination):
		fmt.Println("Backup cancelled.")
	case err != nil:
		fmt.Printf("Backup failed: %v\n", err)
	default:
		fmt.Printf("Backup created: %s\n", result.ArchivePath)
	}
}

func (a *App) reportRestore(ctx context.Context, archive string) {
	result, err := a.restoreUC.Execute(ctx, archive)
	switch {
	case err != nil:
		fmt.Printf("Restore failed: %v\n", err)
	case result.Cancelled:
		fmt.Println("Restore cancelled.")
	default:
		fmt.Println("Restore completed.")
	}
}

// stdinFolderPicker asks for a destination path on the terminal; a native
// folder dialog would slot in behind the same interface. It shares the
// menu's buffered reader so neither side swallows the other's input.
type stdinFolderPicker struct {
	reader *bufio.Reader
}

func (p stdinFolderPicker) PickFolder() (string, bool, error) {
	fmt.Print("Destination folder (empty to cancel): ")
	line, err := readLine(p.reader)
	if err != nil {
		return "", false, err
	}
	if line == "" {
		return "", false, nil
	}
	return line, true, nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
