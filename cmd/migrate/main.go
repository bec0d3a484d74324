// Command migrate manages the PostgreSQL schema for the transcripts service.
//
// Usage:
//
//	migrate up       apply pending migrations
//	migrate down     roll back the last applied migration
//	migrate status   list migrations and whether they are applied
//
// The database is taken from DATABASE_URL.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/alem-hub/transcripts/config"
	"github.com/alem-hub/transcripts/internal/infrastructure/persistence"
	"github.com/alem-hub/transcripts/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/transcripts/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("expected exactly one of: up, down, status")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.Format = logger.Format(cfg.Observability.LogFormat)
	log := logger.New(opts).With(logger.Component("migrate"))
	defer func() { _ = log.Sync() }()

	conn, err := postgres.NewConnection(ctx, persistence.PostgresConfig(cfg.Database))
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	migrator := postgres.NewMigrator(conn)

	switch args[0] {
	case "up":
		if err := migrator.Migrate(ctx); err != nil {
			return err
		}
		log.Info("migrations applied")
	case "down":
		if err := migrator.Rollback(ctx); err != nil {
			return err
		}
		log.Info("last migration rolled back")
	case "status":
		status, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED")
		for _, m := range status {
			applied := "no"
			if m.IsApplied {
				applied = m.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", m.Version, m.Name, applied)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}

	return nil
}
