package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/nithyasundar/bakehouse-backend/internal/backup"
	"github.com/nithyasundar/bakehouse-backend/pkg/config"
	"github.com/nithyasundar/bakehouse-backend/pkg/db"
	"github.com/nithyasundar/bakehouse-backend/pkg/logger"
)

func main() {
	outputDir := flag.String("output-dir", "", "Override the backup output directory")
	limit := flag.Int("limit", -1, "Per-table record limit (-1 keeps the configured value, 0 means all rows)")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "backup"})

	_ = godotenv.Load()

	cfg, err := config.LoadCLI()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "backup",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if *outputDir != "" {
		cfg.Backup.OutputDir = *outputDir
	}
	if *limit >= 0 {
		cfg.Backup.RecordLimit = *limit
	}

	ctx := context.Background()
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	exporter, err := backup.NewExporter(dbClient.DB(), logg, cfg.Backup, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building exporter: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("exporting tables...")
	path, snapshot, err := exporter.ExportToFile(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}

	total := 0
	for _, spec := range backup.Specs {
		rows := snapshot.Tables[spec.Name]
		total += len(rows)
		fmt.Printf("  %-18s %d rows\n", spec.Name, len(rows))
	}
	fmt.Printf("wrote %d rows across %d tables to %s\n", total, len(backup.Specs), path)
}
