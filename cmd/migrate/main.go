package main

import (
	"context"
	"flag"
	"log"

	questdbInfra "github.com/muhammadchandra19/mbp-reconstruction/internal/infrastructure/questdb"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/config"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/logger"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/migration"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/questdb"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/util"
)

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up or down")
		steps     = flag.Int("steps", 0, "Number of steps to migrate (0 = all)")
	)
	flag.Parse()

	ctx := util.WithRunID(context.Background(), "")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logg.Sync()

	// Initialize QuestDB client
	questdbClient, err := questdb.NewClient(ctx, cfg.QuestDB.Config)
	if err != nil {
		log.Fatalf("Failed to initialize QuestDB client: %v", err)
	}
	defer questdbClient.Close()

	runner := migration.NewRunner(questdbClient, logg, questdbInfra.Migrations, questdbInfra.MigrationDir)

	// Ensure migration tracking table exists
	if err := runner.EnsureMigrationTable(ctx); err != nil {
		log.Fatalf("Failed to create migration table: %v", err)
	}

	switch *direction {
	case "up":
		if err := runner.MigrateUp(ctx, *steps); err != nil {
			log.Fatalf("Failed to migrate up: %v", err)
		}
	case "down":
		if err := runner.MigrateDown(ctx, *steps); err != nil {
			log.Fatalf("Failed to migrate down: %v", err)
		}
	default:
		log.Fatalf("Invalid direction: %s. Use 'up' or 'down'", *direction)
	}

	logg.InfoContext(ctx, "migration completed", logger.NewField("direction", *direction))
}
