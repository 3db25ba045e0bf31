// Command migrate manages the database schema.
//
//	migrate up       apply pending migrations
//	migrate down     roll back the latest migration
//	migrate version  print the applied version
//
// With the sqlite driver, "up" creates the tables from the persistence models
// and the other subcommands are unavailable.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"freshharvest/config"
	logs "freshharvest/internal/infra/log"
	"freshharvest/internal/infra/persistence/migrations"
	"freshharvest/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
)

func main() {
	if len(os.Args) != 2 {
		printUsage()
		os.Exit(2)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func run(command string) error {
	switch command {
	case "up", "down", "version":
	default:
		printUsage()

		return errors.Errorf("unknown command %q", command)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return err
	}

	db, err := postgres.Open(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	defer sqlDB.Close()

	if cfg.Database.Driver == config.DriverSQLite {
		if command != "up" {
			return errors.Errorf("%q is not supported for the sqlite driver", command)
		}
		logger.Info("Creating tables from models", slog.String("path", cfg.Database.SQLitePath))

		return postgres.AutoMigrate(db)
	}

	runner, err := migrations.NewRunner(sqlDB, logger)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		return runner.Up()
	case "down":
		return runner.Down()
	default:
		version, dirty, err := runner.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)

		return nil
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: migrate up|down|version")
}
