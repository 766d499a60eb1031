// cmd/jellysafe/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/semmidev/jellysafe/internal/app"
	"github.com/semmidev/jellysafe/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v\n", err)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to config file (optional)")
	backupOnly := flag.Bool("backup", false, "run one unattended backup and exit")
	daemon := flag.Bool("daemon", false, "stay resident and back up on the configured cron schedule")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	application, err := app.New(cfg, app.Options{
		BackupOnly: *backupOnly,
		Daemon:     *daemon,
	})
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer application.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return application.Run(ctx)
}
