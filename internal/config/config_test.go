package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestConfig(t *testing.T) {
	Convey("Given the config package", t, func() {
		tempDir, err := os.MkdirTemp("", "config_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		// the default candidate dirs come from these
		oldLocal := os.Getenv("LOCALAPPDATA")
		oldProgramData := os.Getenv("ProgramData")
		os.Setenv("LOCALAPPDATA", filepath.Join(tempDir, "AppData", "Local"))
		os.Setenv("ProgramData", filepath.Join(tempDir, "ProgramData"))
		defer func() {
			os.Setenv("LOCALAPPDATA", oldLocal)
			os.Setenv("ProgramData", oldProgramData)
		}()

		Convey("Load function", func() {
			Convey("When the config file does not exist", func() {
				cfg, err := Load(filepath.Join(tempDir, "missing.yaml"))

				Convey("It should fall back to defaults", func() {
					So(err, ShouldBeNil)
					So(cfg.App.Name, ShouldEqual, "jellysafe")
					So(cfg.Jellyfin.ServiceName, ShouldEqual, "JellyfinServer")
					So(cfg.Jellyfin.ProcessName, ShouldEqual, "jellyfin.exe")
					So(len(cfg.Jellyfin.DataDirs), ShouldEqual, 3)
					So(cfg.Backup.DownloadURL, ShouldEqual, DefaultDownloadURL)
					So(cfg.Schedule.TaskName, ShouldEqual, "JellyfinBackup")
					So(cfg.Schedule.StartTime, ShouldEqual, "03:00")
				})

				Convey("The system-wide data dir should have top priority", func() {
					So(err, ShouldBeNil)
					So(cfg.Jellyfin.DataDirs[0], ShouldEqual,
						filepath.Join(tempDir, "ProgramData", "Jellyfin", "Server"))
				})
			})

			Convey("When a config file overrides values", func() {
				content := `
app:
  name: custom
  log_level: debug
jellyfin:
  service_name: MyJellyfin
  data_dirs:
    - /srv/jellyfin
backup:
  destination: /backups
schedule:
  start_time: "22:30"
`
				path := filepath.Join(tempDir, "config.yaml")
				So(os.WriteFile(path, []byte(content), 0644), ShouldBeNil)

				cfg, err := Load(path)

				Convey("It should apply them on top of the defaults", func() {
					So(err, ShouldBeNil)
					So(cfg.App.Name, ShouldEqual, "custom")
					So(cfg.Jellyfin.ServiceName, ShouldEqual, "MyJellyfin")
					So(cfg.Jellyfin.DataDirs, ShouldResemble, []string{"/srv/jellyfin"})
					So(cfg.Backup.Destination, ShouldEqual, "/backups")
					So(cfg.Schedule.StartTime, ShouldEqual, "22:30")
					So(cfg.Schedule.TaskName, ShouldEqual, "JellyfinBackup")
				})
			})

			Convey("When the config file is malformed", func() {
				path := filepath.Join(tempDir, "broken.yaml")
				So(os.WriteFile(path, []byte("app: ["), 0644), ShouldBeNil)

				_, err := Load(path)

				Convey("It should return a read error", func() {
					So(err, ShouldNotBeNil)
					So(err.Error(), ShouldContainSubstring, "failed to read config")
				})
			})
		})

		Convey("Validate method", func() {
			valid := func() *Config {
				return &Config{
					Jellyfin: JellyfinConfig{
						ServiceName: "JellyfinServer",
						DataDirs:    []string{"/srv/jellyfin"},
					},
					Backup: BackupConfig{
						Destination: "/backups",
						ToolDir:     "/tools",
						DownloadURL: DefaultDownloadURL,
					},
					Schedule: ScheduleConfig{
						TaskName:  "JellyfinBackup",
						StartTime: "03:00",
					},
				}
			}

			Convey("A complete config should pass", func() {
				So(valid().Validate(), ShouldBeNil)
			})

			Convey("When no candidate data dir is configured", func() {
				cfg := valid()
				cfg.Jellyfin.DataDirs = nil
				So(cfg.Validate(), ShouldNotBeNil)
			})

			Convey("When the start time is not HH:MM", func() {
				cfg := valid()
				cfg.Schedule.StartTime = "3am"
				err := cfg.Validate()
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "start_time")
			})

			Convey("When telegram is enabled without credentials", func() {
				cfg := valid()
				cfg.Notify.Telegram.Enabled = true
				So(cfg.Validate(), ShouldNotBeNil)
			})
		})
	})
}
