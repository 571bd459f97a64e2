package data

import (
	"context"
	"database/sql"

	"github.com/target/placesmap/internal/migrate"
)

// RunMigrations creates or upgrades the places schema by delegating to the migrate package.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
