package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/animedom/animedom/internal/api"
	"github.com/animedom/animedom/internal/auth"
	"github.com/animedom/animedom/internal/models"
)

// CreateUser adds a user with the given password, granting role when it is not empty.
func CreateUser(t *testing.T, s *api.Server, email, password, role string) *models.User {
	t.Helper()
	ctx := context.Background()

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password for test user: %v", err)
	}
	user, err := s.Store().CreateUser(ctx, email, passwordHash)
	if err != nil {
		t.Fatalf("Failed to create test user '%s': %v", email, err)
	}
	if role != "" {
		if err := s.Store().GrantRole(ctx, user.ID, role); err != nil {
			t.Fatalf("Failed to grant role %s to '%s': %v", role, email, err)
		}
	}
	return user
}

// Login signs in through the sign-in form and returns the session cookie.
func Login(t *testing.T, s *api.Server, email, password string) *http.Cookie {
	t.Helper()

	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("Login failed within test helper for user '%s': got status %d, want 303", email, rr.Code)
	}
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "session_token" && cookie.Value != "" {
			return cookie
		}
	}

	t.Fatal("Failed to get session cookie after successful login for test user")
	return nil
}

// CookieForUser creates a user, logs them in, and returns a valid session cookie.
func CookieForUser(t *testing.T, s *api.Server, email, password, role string) *http.Cookie {
	t.Helper()
	user := CreateUser(t, s, email, password, role)
	cookie := Login(t, s, email, password)
	t.Cleanup(func() {
		s.Store().DeleteUser(context.Background(), user.ID)
	})
	return cookie
}
