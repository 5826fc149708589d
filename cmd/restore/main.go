package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nithyasundar/bakehouse-backend/internal/backup"
	"github.com/nithyasundar/bakehouse-backend/pkg/config"
	"github.com/nithyasundar/bakehouse-backend/pkg/db"
	"github.com/nithyasundar/bakehouse-backend/pkg/logger"
)

func main() {
	file := flag.String("file", "", "Snapshot file to restore (falls back to BAKEHOUSE_BACKUP_FILE)")
	confirm := flag.String("confirm", "", "Type RESTORE to proceed")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "restore"})

	_ = godotenv.Load()

	cfg, err := config.LoadCLI()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "restore",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	path := strings.TrimSpace(*file)
	if path == "" {
		path = strings.TrimSpace(cfg.Backup.File)
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "--file is required (or set BAKEHOUSE_BACKUP_FILE)")
		os.Exit(1)
	}
	if strings.TrimSpace(*confirm) != "RESTORE" {
		fmt.Fprintln(os.Stderr, "set --confirm=RESTORE to proceed, restored rows overwrite the destination")
		os.Exit(1)
	}

	snapshot, err := backup.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("snapshot %s generated at %s (source %s)\n", path, snapshot.GeneratedAt.Format("2006-01-02 15:04:05"), snapshot.SourceDatabase)

	ctx := context.Background()
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	restorer, err := backup.NewRestorer(dbClient.DB(), logg, cfg.Backup)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building restorer: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("restoring tables...")
	summary, err := restorer.Restore(ctx, snapshot)
	if summary == nil {
		fmt.Fprintf(os.Stderr, "restore failed: %v\n", err)
		os.Exit(1)
	}
	for _, result := range summary.Tables {
		line := fmt.Sprintf("  %-18s %-8s fetched=%d written=%d dropped=%d", result.Name, result.State, result.Fetched, result.Written, result.Dropped)
		if result.Err != nil {
			line += " error=" + result.Err.Error()
		}
		fmt.Println(line)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "restore finished with errors: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("restore complete")
}
