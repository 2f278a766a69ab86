package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/animedom/animedom/internal/models"
)

// ErrSessionExpired is returned for a session token past its expiry.
var ErrSessionExpired = errors.New("session expired")

const userColumns = `id, email, password_hash, created_at`

// CreateUser adds a new user to the database. Emails are stored lowercased.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    now(),
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (:id, :email, :password_hash, :created_at)`, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %q: %w", user.Email, ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their unique email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := s.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)
	if err := s.db.GetContext(ctx, &user, query, normalizeEmail(email)); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by their primary key.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := s.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// DeleteUser removes a user. Cascading deletes handle their sessions and roles.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	return err
}

// CountUsers returns the total number of users in the database.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}

// CreateSession creates a new session for a user and returns the session token.
func (s *Store) CreateSession(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)
	expiry := now().Add(ttl)
	query := s.db.Rebind(`INSERT INTO sessions (token, user_id, expiry) VALUES (?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, token, userID, expiry); err != nil {
		return "", err
	}
	return token, nil
}

// GetUserFromSession retrieves a user based on a session token.
func (s *Store) GetUserFromSession(ctx context.Context, token string) (*models.User, error) {
	var session struct {
		UserID string    `db:"user_id"`
		Expiry time.Time `db:"expiry"`
	}
	query := s.db.Rebind(`SELECT user_id, expiry FROM sessions WHERE token = ?`)
	if err := s.db.GetContext(ctx, &session, query, token); err != nil {
		return nil, notFound(err)
	}

	if now().After(session.Expiry) {
		s.DeleteSession(ctx, token)
		return nil, ErrSessionExpired
	}

	return s.GetUserByID(ctx, session.UserID)
}

// DeleteSession removes a session from the database (used for logout).
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM sessions WHERE token = ?`), token)
	return err
}

// PurgeExpiredSessions deletes every expired session and returns how many were removed.
func (s *Store) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM sessions WHERE expiry < ?`), now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GrantRole gives role to the user. Granting a role twice is a no-op.
func (s *Store) GrantRole(ctx context.Context, userID, role string) error {
	query := s.db.Rebind(`INSERT INTO user_roles (user_id, role) VALUES (?, ?) ON CONFLICT (user_id, role) DO NOTHING`)
	_, err := s.db.ExecContext(ctx, query, userID, role)
	return err
}

// RevokeRole takes role away from the user.
func (s *Store) RevokeRole(ctx context.Context, userID, role string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM user_roles WHERE user_id = ? AND role = ?`), userID, role)
	return err
}

// HasRole reports whether a user_roles row exists for the user and role.
func (s *Store) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var count int
	query := s.db.Rebind(`SELECT COUNT(*) FROM user_roles WHERE user_id = ? AND role = ?`)
	if err := s.db.GetContext(ctx, &count, query, userID, role); err != nil {
		return false, err
	}
	return count > 0, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
