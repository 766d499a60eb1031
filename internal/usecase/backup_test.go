package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/semmidev/jellysafe/internal/domain"
)

var archiveNamePattern = regexp.MustCompile(`^JellyfinBackup_\d{8}_\d{6}\.zip$`)

func TestBackup(t *testing.T) {
	Convey("Given a Backup use case", t, func() {
		tempDir, err := os.MkdirTemp("", "backup_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		dataDir := filepath.Join(tempDir, "jellyfin-data")
		So(os.MkdirAll(dataDir, 0755), ShouldBeNil)
		defaultDest := filepath.Join(tempDir, "Backups")

		ctx := context.Background()

		newFakes := func() (*callLog, *fakeController, *fakeProvisioner, *fakeArchiver) {
			log := &callLog{}
			return log,
				&fakeController{log: log},
				&fakeProvisioner{log: log, path: "7za.exe"},
				&fakeArchiver{log: log, writeArchive: true}
		}

		Convey("Execute method, non-interactive", func() {
			Convey("When everything succeeds", func() {
				log, services, prov, arch := newFakes()
				uc := NewBackup(dataDir, defaultDest, nil, services, prov, arch, nil, nopLogger{})

				result, err := uc.Execute(ctx, false)

				Convey("It should stop, archive, then start, in that order", func() {
					So(err, ShouldBeNil)
					So(log.calls, ShouldResemble, []string{"stop", "ensure", "archive", "start"})
					So(result.StopOutcome, ShouldEqual, domain.StopOutcomeStopped)
					So(result.StartOutcome, ShouldEqual, domain.StartOutcomeStarted)
				})

				Convey("It should produce exactly one timestamped archive in the default folder", func() {
					So(err, ShouldBeNil)

					entries, err := os.ReadDir(defaultDest)
					So(err, ShouldBeNil)
					So(len(entries), ShouldEqual, 1)
					So(archiveNamePattern.MatchString(entries[0].Name()), ShouldBeTrue)
					So(result.ArchivePath, ShouldEqual, filepath.Join(defaultDest, entries[0].Name()))
				})

				Convey("It should archive the whole data directory", func() {
					So(err, ShouldBeNil)
					So(arch.lastDir, ShouldEqual, dataDir)
					So(arch.lastTool, ShouldEqual, "7za.exe")
				})
			})

			Convey("When the archiver exits nonzero", func() {
				log, services, prov, arch := newFakes()
				arch.exitCode = 2
				uc := NewBackup(dataDir, defaultDest, nil, services, prov, arch, nil, nopLogger{})

				_, err := uc.Execute(ctx, false)

				Convey("It should fail but still start the service exactly once", func() {
					So(err, ShouldNotBeNil)
					So(err.Error(), ShouldContainSubstring, "exited with code 2")
					So(services.starts, ShouldEqual, 1)
					So(log.calls, ShouldResemble, []string{"stop", "ensure", "archive", "start"})
				})
			})

			Convey("When the tool cannot be acquired", func() {
				log, services, prov, arch := newFakes()
				prov.err = &domain.AcquisitionError{ToolDir: "7zip", SourceURL: "https://example.com", Err: errors.New("boom")}
				uc := NewBackup(dataDir, defaultDest, nil, services, prov, arch, nil, nopLogger{})

				_, err := uc.Execute(ctx, false)

				Convey("It should fail, skip archiving, and still restart", func() {
					So(err, ShouldNotBeNil)

					var acqErr *domain.AcquisitionError
					So(errors.As(err, &acqErr), ShouldBeTrue)
					So(services.starts, ShouldEqual, 1)
					So(log.calls, ShouldResemble, []string{"stop", "ensure", "start"})
				})
			})

			Convey("When two backups run at least a second apart", func() {
				_, services, prov, arch := newFakes()
				uc := NewBackup(dataDir, defaultDest, nil, services, prov, arch, nil, nopLogger{})

				base := time.Date(2026, 8, 31, 3, 0, 0, 0, time.Local)
				uc.now = func() time.Time { return base }
				first, err := uc.Execute(ctx, false)
				So(err, ShouldBeNil)

				uc.now = func() time.Time { return base.Add(time.Second) }
				second, err := uc.Execute(ctx, false)
				So(err, ShouldBeNil)

				Convey("Their names should sort chronologically", func() {
					So(filepath.Base(first.ArchivePath), ShouldBeLessThan, filepath.Base(second.ArchivePath))
				})
			})
		})

		Convey("Execute method, interactive", func() {
			Convey("When the user picks a folder", func() {
				_, services, prov, arch := newFakes()
				chosen := filepath.Join(tempDir, "chosen")
				picker := &fakePicker{path: chosen, ok: true}
				uc := NewBackup(dataDir, defaultDest, picker, services, prov, arch, nil, nopLogger{})

				result, err := uc.Execute(ctx, true)

				Convey("The archive should land there", func() {
					So(err, ShouldBeNil)
					So(filepath.Dir(result.ArchivePath), ShouldEqual, chosen)
				})
			})

			Convey("When the user cancels the folder choice", func() {
				log, services, prov, arch := newFakes()
				picker := &fakePicker{ok: false}
				uc := NewBackup(dataDir, defaultDest, picker, services, prov, arch, nil, nopLogger{})

				_, err := uc.Execute(ctx, true)

				Convey("It should fail with ErrNoDestination and still restart", func() {
					So(errors.Is(err, domain.ErrNoDestination), ShouldBeTrue)
					So(services.starts, ShouldEqual, 1)
					So(log.calls, ShouldResemble, []string{"stop", "start"})
				})
			})
		})

		Convey("Execute method, with a notifier", func() {
			Convey("When the backup succeeds", func() {
				_, services, prov, arch := newFakes()
				notifier := &fakeNotifier{}
				uc := NewBackup(dataDir, defaultDest, nil, services, prov, arch, notifier, nopLogger{})

				_, err := uc.Execute(ctx, false)

				Convey("It should send one success message", func() {
					So(err, ShouldBeNil)
					So(len(notifier.messages), ShouldEqual, 1)
					So(notifier.messages[0], ShouldContainSubstring, "JellyfinBackup_")
				})
			})

			Convey("When the backup fails", func() {
				_, services, prov, arch := newFakes()
				arch.exitCode = 1
				notifier := &fakeNotifier{}
				uc := NewBackup(dataDir, defaultDest, nil, services, prov, arch, notifier, nopLogger{})

				_, err := uc.Execute(ctx, false)

				Convey("It should send one failure message", func() {
					So(err, ShouldNotBeNil)
					So(len(notifier.messages), ShouldEqual, 1)
					So(notifier.messages[0], ShouldContainSubstring, "failed")
				})
			})
		})
	})
}
