package auth

import (
	"context"
	"fmt"

	"github.com/animedom/animedom/internal/models"
)

// AccountStore is the part of the store needed to provision accounts.
type AccountStore interface {
	CountUsers(ctx context.Context) (int, error)
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GrantRole(ctx context.Context, userID, role string) error
}

// EnsureAdmin creates an admin account with a random password when the
// database has no users yet. It returns the generated password, or an
// empty string when users already exist.
func EnsureAdmin(ctx context.Context, accounts AccountStore, email string) (string, error) {
	count, err := accounts.CountUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("could not check user count: %w", err)
	}
	if count > 0 {
		return "", nil
	}

	password, err := GeneratePassword(12)
	if err != nil {
		return "", err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	user, err := accounts.CreateUser(ctx, email, hash)
	if err != nil {
		return "", fmt.Errorf("could not create default admin user: %w", err)
	}
	if err := accounts.GrantRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return "", fmt.Errorf("could not grant admin role: %w", err)
	}
	return password, nil
}
