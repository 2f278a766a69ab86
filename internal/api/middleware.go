package api

// This file contains the middleware for handling authentication and role-based authorization.

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/animedom/animedom/internal/models"
	"github.com/animedom/animedom/internal/store"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey string

const userContextKey = contextKey("user")

const sessionCookieName = "session_token"

// loadSession resolves the session cookie, if any, and injects the user into
// the request's context. Anonymous requests pass through unchanged.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.store.GetUserFromSession(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrSessionExpired) {
				s.logger.Warn("Failed to resolve session", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects JSON requests without a valid session.
func (s *Server) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if getUserFromContext(r) == nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized: Invalid session")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminOnlyMiddleware ensures only users with the admin role can access a route.
// The role is looked up on every request, so a revoked role takes effect immediately.
// It must be chained *after* RequireUser.
func (s *Server) AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := getUserFromContext(r)
		if user == nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		isAdmin, err := s.store.HasRole(r.Context(), user.ID, models.RoleAdmin)
		if err != nil {
			s.logger.Error("Failed to check admin role", zap.String("user_id", user.ID), zap.Error(err))
			RespondWithError(w, http.StatusInternalServerError, "Failed to check permissions")
			return
		}
		if !isAdmin {
			RespondWithError(w, http.StatusForbidden, "Forbidden: Administrator access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// adminPageGate guards the admin screen: anonymous visitors are sent to the
// sign-in page, signed-in users without the admin role are sent home with a
// notice. It runs on every admin request, form posts included.
func (s *Server) adminPageGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := getUserFromContext(r)
		if user == nil {
			http.Redirect(w, r, "/auth", http.StatusSeeOther)
			return
		}

		isAdmin, err := s.store.HasRole(r.Context(), user.ID, models.RoleAdmin)
		if err != nil {
			s.logger.Error("Failed to check admin role", zap.String("user_id", user.ID), zap.Error(err))
			setNotice(w, errorNotice("Не удалось проверить права доступа"))
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if !isAdmin {
			setNotice(w, Notice{
				Title:       "Доступ запрещён",
				Description: "У вас нет прав администратора",
				Destructive: true,
			})
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getUserFromContext is a helper function to safely retrieve the user object from the request context.
// It returns nil if the user is not found in the context.
func getUserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
