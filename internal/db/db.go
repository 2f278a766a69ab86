package db

import (
	"database/sql"
	"embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/httpfs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	// Registers the pgx driver with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	sqlitedriver "github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// sqliteFoldDriver is go-sqlite3 with a fold(text) SQL function that
// lowercases with Unicode rules. SQLite's own lower() and LIKE only fold ASCII.
const sqliteFoldDriver = "sqlite3_fold"

func init() {
	sql.Register(sqliteFoldDriver, &sqlitedriver.SQLiteDriver{
		ConnectHook: func(conn *sqlitedriver.SQLiteConn) error {
			return conn.RegisterFunc("fold", strings.ToLower, true)
		},
	})
}

// InitDB opens a connection to the database described by driver and dsn
// and ensures the connection is valid.
func InitDB(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to an in-memory SQLite database is a separate database.
	if driver == DriverSQLite && strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// open keeps the configured driver name on the sqlx handle, so bind vars
// and migration drivers are chosen as usual, while SQLite connections come
// from sqliteFoldDriver.
func open(driver, dsn string) (*sqlx.DB, error) {
	if driver != DriverSQLite {
		return sqlx.Open(driver, dsn)
	}
	raw, err := sql.Open(sqliteFoldDriver, dsn)
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(raw, DriverSQLite), nil
}

// sqliteDSN turns on foreign key enforcement for every connection in the pool.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// RunMigrations applies the embedded "up" migrations to db.
func RunMigrations(db *sqlx.DB, migrationsFS embed.FS, logger *zap.Logger) error {
	source, err := httpfs.New(http.FS(migrationsFS), "migrations")
	if err != nil {
		return fmt.Errorf("could not create migration source: %w", err)
	}

	driver, err := migrationDriver(db)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("httpfs", source, db.DriverName(), driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	logger.Info("Applying database migrations from embedded files", zap.String("driver", db.DriverName()))
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("an error occurred while applying migrations: %w", err)
	}

	logger.Info("Migrations applied successfully")
	return nil
}

func migrationDriver(db *sqlx.DB) (database.Driver, error) {
	var (
		driver database.Driver
		err    error
	)
	switch db.DriverName() {
	case DriverSQLite:
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	case DriverPostgres:
		driver, err = migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	default:
		return nil, fmt.Errorf("no migration driver for %q", db.DriverName())
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s migration driver: %w", db.DriverName(), err)
	}
	return driver, nil
}

// IsPostgres reports whether db talks to Postgres.
func IsPostgres(db *sqlx.DB) bool {
	return db.DriverName() == DriverPostgres
}
