// To handle all database interactions. This is our
// data access layer, keeping SQL queries separate from view logic.

package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/animedom/animedom/internal/db"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("already exists")
)

// Store provides all functions to interact with the database.
// Queries are written with '?' placeholders and rebound for the driver in use.
type Store struct {
	db *sqlx.DB
}

// New creates a new Store instance.
func New(database *sqlx.DB) *Store {
	return &Store{db: database}
}

// Ping checks the database connection.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// titleMatch returns a WHERE condition matching titles that contain term,
// ignoring case, and its argument. Postgres has ILIKE; on SQLite both sides
// go through fold(), registered by the db package, since LIKE there only
// ignores case for ASCII letters.
func (s *Store) titleMatch(term string) (string, string) {
	if db.IsPostgres(s.db) {
		return `title ILIKE ? ESCAPE '\'`, containsPattern(term)
	}
	return `fold(title) LIKE ? ESCAPE '\'`, containsPattern(strings.ToLower(term))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term anywhere in the value.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func now() time.Time {
	return time.Now().UTC()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
