package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/viper"
)

// DefaultDownloadURL is the portable 7-Zip distribution fetched on first use
// when no local archiver executable exists yet.
const DefaultDownloadURL = "https://www.7-zip.org/a/7za920.zip"

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Jellyfin JellyfinConfig `mapstructure:"jellyfin"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Daemon   DaemonConfig   `mapstructure:"daemon"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

type JellyfinConfig struct {
	ServiceName string `mapstructure:"service_name"`
	ProcessName string `mapstructure:"process_name"`
	Executable  string `mapstructure:"executable"`

	// DataDirs are candidate data directories in priority order; the first
	// that exists wins.
	DataDirs []string `mapstructure:"data_dirs"`
}

type BackupConfig struct {
	Destination string `mapstructure:"destination"`
	ToolDir     string `mapstructure:"tool_dir"`
	DownloadURL string `mapstructure:"download_url"`
}

type ScheduleConfig struct {
	TaskName  string `mapstructure:"task_name"`
	StartTime string `mapstructure:"start_time"`
}

type DaemonConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// Load reads the YAML config at path. The file is optional: a scheduled
// unattended invocation runs fine on defaults alone, so a missing file is
// not an error.
func Load(path string) (*Config, error) {
	exeDir := executableDir()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("app.name", "jellysafe")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("jellyfin.service_name", "JellyfinServer")
	v.SetDefault("jellyfin.process_name", "jellyfin.exe")
	v.SetDefault("jellyfin.executable", defaultJellyfinExecutable())
	v.SetDefault("jellyfin.data_dirs", defaultDataDirs())
	v.SetDefault("backup.destination", filepath.Join(exeDir, "Backups"))
	v.SetDefault("backup.tool_dir", filepath.Join(exeDir, "7zip"))
	v.SetDefault("backup.download_url", DefaultDownloadURL)
	v.SetDefault("schedule.task_name", "JellyfinBackup")
	v.SetDefault("schedule.start_time", "03:00")
	v.SetDefault("daemon.schedule", "0 0 3 * * *")

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

var startTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func (c *Config) Validate() error {
	if c.Jellyfin.ServiceName == "" {
		return fmt.Errorf("jellyfin.service_name is required")
	}
	if len(c.Jellyfin.DataDirs) == 0 {
		return fmt.Errorf("jellyfin.data_dirs: at least one candidate directory is required")
	}
	if c.Backup.Destination == "" {
		return fmt.Errorf("backup.destination is required")
	}
	if c.Backup.ToolDir == "" {
		return fmt.Errorf("backup.tool_dir is required")
	}
	if c.Backup.DownloadURL == "" {
		return fmt.Errorf("backup.download_url is required")
	}
	if c.Schedule.TaskName == "" {
		return fmt.Errorf("schedule.task_name is required")
	}
	if !startTimePattern.MatchString(c.Schedule.StartTime) {
		return fmt.Errorf("schedule.start_time must be HH:MM, got %q", c.Schedule.StartTime)
	}
	if c.Notify.Telegram.Enabled {
		if c.Notify.Telegram.BotToken == "" || c.Notify.Telegram.ChatID == "" {
			return fmt.Errorf("notify.telegram: bot_token and chat_id are required when enabled")
		}
	}
	return nil
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// defaultDataDirs lists the stock Jellyfin install locations: the system-wide
// service data path first, then both casings the user-scoped installer has
// shipped over the years.
func defaultDataDirs() []string {
	var dirs []string
	if programData := os.Getenv("ProgramData"); programData != "" {
		dirs = append(dirs, filepath.Join(programData, "Jellyfin", "Server"))
	}
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		dirs = append(dirs,
			filepath.Join(localAppData, "jellyfin"),
			filepath.Join(localAppData, "Jellyfin"),
		)
	}
	return dirs
}

func defaultJellyfinExecutable() string {
	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		return ""
	}
	return filepath.Join(localAppData, "jellyfin", "jellyfin.exe")
}
