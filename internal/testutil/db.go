package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/animedom/animedom/internal/assets"
	"github.com/animedom/animedom/internal/db"
)

// SetupTestDB creates an in-memory SQLite database and applies all migrations.
// It returns the database connection, ready for use in tests.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.InitDB(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	// Attach a cleanup function to automatically close the DB when the test completes.
	t.Cleanup(func() {
		database.Close()
	})

	if err := db.RunMigrations(database, assets.MigrationsFS, zap.NewNop()); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return database
}
