package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animedom/animedom/internal/auth"
	"github.com/animedom/animedom/internal/models"
	"github.com/animedom/animedom/internal/store"
	"github.com/animedom/animedom/internal/testutil"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := store.New(testutil.SetupTestDB(t))

	passwordHash, _ := auth.HashPassword("password123")

	t.Run("Create User Success", func(t *testing.T) {
		user, err := s.CreateUser(ctx, " Viewer@Example.com ", passwordHash)
		require.NoError(t, err)
		assert.Equal(t, "viewer@example.com", user.Email)
	})

	t.Run("Create User with Duplicate Email", func(t *testing.T) {
		_, err := s.CreateUser(ctx, "viewer@example.com", passwordHash)
		assert.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("Get User By Email", func(t *testing.T) {
		user, err := s.GetUserByEmail(ctx, "VIEWER@example.com")
		require.NoError(t, err)
		assert.True(t, auth.CheckPasswordHash("password123", user.PasswordHash))
	})

	t.Run("Get Non-existent User", func(t *testing.T) {
		_, err := s.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Count Users", func(t *testing.T) {
		count, err := s.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestUserStore_Sessions(t *testing.T) {
	ctx := context.Background()
	database := testutil.SetupTestDB(t)
	s := store.New(database)

	user, err := s.CreateUser(ctx, "a@example.com", "hash")
	require.NoError(t, err)

	t.Run("valid session resolves to its user", func(t *testing.T) {
		token, err := s.CreateSession(ctx, user.ID, time.Hour)
		require.NoError(t, err)
		assert.Len(t, token, 64)

		got, err := s.GetUserFromSession(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		require.NoError(t, s.DeleteSession(ctx, token))
		_, err = s.GetUserFromSession(ctx, token)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("expired session is rejected and removed", func(t *testing.T) {
		token, err := s.CreateSession(ctx, user.ID, -time.Minute)
		require.NoError(t, err)

		_, err = s.GetUserFromSession(ctx, token)
		assert.ErrorIs(t, err, store.ErrSessionExpired)

		var count int
		require.NoError(t, database.Get(&count, "SELECT COUNT(*) FROM sessions"))
		assert.Zero(t, count)
	})

	t.Run("purge removes only expired sessions", func(t *testing.T) {
		_, err := s.CreateSession(ctx, user.ID, -time.Minute)
		require.NoError(t, err)
		_, err = s.CreateSession(ctx, user.ID, -time.Hour)
		require.NoError(t, err)
		live, err := s.CreateSession(ctx, user.ID, time.Hour)
		require.NoError(t, err)

		purged, err := s.PurgeExpiredSessions(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, purged)

		_, err = s.GetUserFromSession(ctx, live)
		assert.NoError(t, err)
	})
}

func TestUserStore_Roles(t *testing.T) {
	ctx := context.Background()
	s := store.New(testutil.SetupTestDB(t))

	user, err := s.CreateUser(ctx, "admin@example.com", "hash")
	require.NoError(t, err)

	isAdmin, err := s.HasRole(ctx, user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, s.GrantRole(ctx, user.ID, models.RoleAdmin))
	require.NoError(t, s.GrantRole(ctx, user.ID, models.RoleAdmin), "granting twice is a no-op")

	isAdmin, err = s.HasRole(ctx, user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	require.NoError(t, s.RevokeRole(ctx, user.ID, models.RoleAdmin))
	isAdmin, err = s.HasRole(ctx, user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	t.Run("deleting the user removes their roles", func(t *testing.T) {
		require.NoError(t, s.GrantRole(ctx, user.ID, models.RoleAdmin))
		require.NoError(t, s.DeleteUser(ctx, user.ID))
		isAdmin, err := s.HasRole(ctx, user.ID, models.RoleAdmin)
		require.NoError(t, err)
		assert.False(t, isAdmin)
	})
}
