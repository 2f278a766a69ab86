package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/animedom/animedom/internal/api"
	"github.com/animedom/animedom/internal/config"
	"github.com/animedom/animedom/internal/core"
)

// TestConfig returns the configuration tests run with.
func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite3"
	cfg.Database.DSN = ":memory:"
	cfg.Session.TTLHours = 1
	cfg.Server.RequestTimeout = 5
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.Storage.Bucket = "covers"
	return cfg
}

// SetupTestApp returns a core.App backed by a fresh in-memory database.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	return &core.App{
		Config:  TestConfig(),
		DB:      SetupTestDB(t),
		Logger:  zap.NewNop(),
		Version: "test",
	}
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *sqlx.DB) {
	t.Helper()
	app := SetupTestApp(t)
	server, err := api.NewServer(app)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	t.Cleanup(server.Jobs().Wait)
	return server, app.DB
}
