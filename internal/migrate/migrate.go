package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

const dir = "migrations"

//go:embed migrations/*.sql
var migrations embed.FS

// Run executes a goose command (up, down, status, version, redo, reset) against db.
func Run(ctx context.Context, db *sql.DB, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// RunPool runs a goose command through a database/sql handle borrowed from the pool.
func RunPool(ctx context.Context, pool *pgxpool.Pool, command string, args ...string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return Run(ctx, db, command, args...)
}

// AutoUp applies pending migrations when enabled. It is used by the API in
// development.
func AutoUp(ctx context.Context, pool *pgxpool.Pool, enabled bool, logger zerolog.Logger) error {
	if !enabled || pool == nil {
		return nil
	}
	logger.Info().Msg("running migrations")
	if err := RunPool(ctx, pool, "up"); err != nil {
		return err
	}
	logger.Info().Msg("migrations completed")
	return nil
}

// Files lists the embedded migration file names.
func Files() ([]string, error) {
	entries, err := migrations.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out, nil
}
