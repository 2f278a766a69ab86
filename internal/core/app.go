package core

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/animedom/animedom/internal/assets"
	"github.com/animedom/animedom/internal/config"
	"github.com/animedom/animedom/internal/db"
)

// App holds the core components of the application that are shared
// between the server and the CLI.
type App struct {
	Config  *config.Config
	DB      *sqlx.DB
	Logger  *zap.Logger
	Version string
}

// New sets up and returns a new App instance. It handles loading the
// configuration, building the logger, initializing the database connection,
// and running migrations.
func New(version string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	database, err := db.InitDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database, assets.MigrationsFS, logger); err != nil {
		// We can't proceed without a valid database schema.
		database.Close()
		logger.Sync()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	logger.Info("Core application setup complete.", zap.String("driver", cfg.Database.Driver))
	return &App{
		Config:  cfg,
		DB:      database,
		Logger:  logger,
		Version: version,
	}, nil
}

// NewLogger builds a zap logger from the log section of the configuration.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// Close gracefully closes the application's resources, like the DB connection.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
	if a.Logger != nil {
		a.Logger.Sync()
	}
}
