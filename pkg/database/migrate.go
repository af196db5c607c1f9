package database

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// MigrateOptions controls a migration run. TargetVersion 0 means latest.
type MigrateOptions struct {
	TargetVersion int64
	Timeout       time.Duration
}

// Migrate applies the goose migrations in migrations to the database at dsn,
// moving up or down to reach the target version.
func Migrate(ctx context.Context, dsn string, migrations fs.FS, opts MigrateOptions, log *zap.Logger) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open postgres connection: %w", err)
	}
	defer db.Close()

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = opts.Timeout
	err = backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return fmt.Errorf("initialize postgres connection: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	log.Info("Current schema version", zap.Int64("version", current))

	var results []*goose.MigrationResult
	switch {
	case opts.TargetVersion == 0:
		results, err = provider.Up(ctx)
	case opts.TargetVersion < current:
		results, err = provider.DownTo(ctx, opts.TargetVersion)
	case opts.TargetVersion > current:
		results, err = provider.UpTo(ctx, opts.TargetVersion)
	default:
		log.Info("Schema already at target version")
		return nil
	}
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	for _, r := range results {
		log.Info("Applied migration",
			zap.String("source", r.Source.Path),
			zap.String("direction", r.Direction),
			zap.Duration("duration", r.Duration),
		)
	}

	return nil
}
