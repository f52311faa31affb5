package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/postgres"
	"github.com/shopbridge/mollie-gateway/migrations"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print pending migrations without executing them")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		logger.Fatalw("Failed to create schema_migrations", "error", err)
	}

	files, err := fs.Glob(migrations.Postgres, "postgres/*.sql")
	if err != nil {
		logger.Fatalw("Failed to list migrations", "error", err)
	}
	sort.Strings(files)

	applied := 0
	for _, file := range files {
		var exists bool
		if err := db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, file); err != nil {
			logger.Fatalw("Failed to check migration", "file", file, "error", err)
		}
		if exists {
			continue
		}

		body, err := fs.ReadFile(migrations.Postgres, file)
		if err != nil {
			logger.Fatalw("Failed to read migration", "file", file, "error", err)
		}

		if *dryRun {
			fmt.Printf("-- %s\n%s\n", file, body)
			continue
		}

		logger.Infow("applying migration", "file", file)
		err = db.WithTx(ctx, func(ctx context.Context) error {
			q := db.GetQuerier(ctx)
			if _, err := q.ExecContext(ctx, string(body)); err != nil {
				return err
			}
			_, err := q.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, file)
			return err
		})
		if err != nil {
			logger.Fatalw("Failed to apply migration", "file", file, "error", err)
		}
		applied++
	}

	logger.Infow("migration completed", "applied", applied, "dry_run", *dryRun)
}
