// Package migrate applies the SQL schema embedded in the binary.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/target/placesmap/internal/data/pgxutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// advisoryLockKey serializes concurrent migrators (several replicas starting
// at once) on the same database.
const advisoryLockKey int64 = 0x706c61636573 // "places"

// Migration is one embedded SQL file.
type Migration struct {
	Version string
	SQL     string
}

// Load returns the embedded migrations ordered by version.
func Load() ([]Migration, error) {
	return load(migrationsFS, "migrations")
}

func load(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := fs.ReadFile(fsys, dir+"/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: strings.TrimSuffix(e.Name(), ".sql"), SQL: string(b)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Run applies pending migrations. It is safe to call multiple times and from
// several processes at once.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	migrations, err := Load()
	if err != nil {
		return err
	}

	logger := slog.Default().With("component", "migrations")
	for _, m := range migrations {
		applied, err := apply(ctx, db, m)
		if err != nil {
			return err
		}
		if applied {
			logger.InfoContext(ctx, "applied migration", "version", m.Version)
		}
	}
	return nil
}

// apply runs m inside a transaction holding the migration advisory lock.
// It reports false when another process already recorded m.
func apply(ctx context.Context, db *sql.DB, m Migration) (bool, error) {
	applied := false
	err := pgxutil.WithSQLTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
			return fmt.Errorf("lock migrations: %w", err)
		}

		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", m.Version, err)
		}
		if exists {
			return nil
		}

		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("exec migration %s: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.Version, err)
		}
		applied = true
		return nil
	})
	return applied, err
}
