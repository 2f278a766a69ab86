package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/animedom/animedom/internal/auth"
	"github.com/animedom/animedom/internal/models"
	"github.com/animedom/animedom/internal/store"
)

const minPasswordLength = 6

// errInvalidCredentials is shown for both an unknown email and a wrong password.
var errInvalidCredentials = errors.New("Неверный email или пароль")

// authForm is the sign-in/sign-up page model.
type authForm struct {
	Email string
}

// authenticate checks the credentials and opens a session.
func (s *Server) authenticate(r *http.Request, email, password string) (*models.User, string, error) {
	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", errInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", errInvalidCredentials
	}

	token, err := s.store.CreateSession(r.Context(), user.ID, s.app.Config.SessionTTL())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(s.app.Config.SessionTTL()),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // Set secure flag if using HTTPS
		SameSite: http.SameSiteLaxMode,
	})
}

// endSession deletes the server-side session and expires the cookie.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := s.store.DeleteSession(r.Context(), cookie.Value); err != nil {
			s.logger.Warn("Failed to delete session", zap.Error(err))
		}
	}

	// Expire the cookie on the client side
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleAuthPage(w http.ResponseWriter, r *http.Request) {
	if getUserFromContext(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "auth", "Вход", authForm{}, nil)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := authForm{Email: strings.TrimSpace(r.PostForm.Get("email"))}

	_, token, err := s.authenticate(r, form.Email, r.PostForm.Get("password"))
	if err != nil {
		status := http.StatusUnauthorized
		message := err.Error()
		if !errors.Is(err, errInvalidCredentials) {
			s.logger.Error("Login failed", zap.Error(err))
			status = http.StatusInternalServerError
			message = "Не удалось выполнить вход"
		}
		notice := errorNotice(message)
		s.render(w, r, status, "auth", "Вход", form, &notice)
		return
	}

	s.setSessionCookie(w, r, token)
	setNotice(w, successNotice("Вы вошли в систему"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := authForm{Email: strings.TrimSpace(r.PostForm.Get("email"))}
	password := r.PostForm.Get("password")

	fail := func(status int, message string) {
		notice := errorNotice(message)
		s.render(w, r, status, "auth", "Регистрация", form, &notice)
	}

	if !strings.Contains(form.Email, "@") {
		fail(http.StatusUnprocessableEntity, "Введите корректный email")
		return
	}
	if len(password) < minPasswordLength {
		fail(http.StatusUnprocessableEntity, "Пароль должен содержать не менее 6 символов")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		fail(http.StatusInternalServerError, "Не удалось создать аккаунт")
		return
	}
	user, err := s.store.CreateUser(r.Context(), form.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			fail(http.StatusConflict, "Пользователь с таким email уже существует")
			return
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		fail(http.StatusInternalServerError, "Не удалось создать аккаунт")
		return
	}

	token, err := s.store.CreateSession(r.Context(), user.ID, s.app.Config.SessionTTL())
	if err != nil {
		s.logger.Error("Failed to create session", zap.Error(err))
		fail(http.StatusInternalServerError, "Не удалось выполнить вход")
		return
	}

	s.logger.Info("User signed up", zap.String("user_id", user.ID))
	s.setSessionCookie(w, r, token)
	setNotice(w, successNotice("Аккаунт создан"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogoutForm(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, token, err := s.authenticate(r, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.logger.Error("Login failed", zap.Error(err))
		RespondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	s.setSessionCookie(w, r, token)
	RespondWithJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	isAdmin, err := s.store.HasRole(r.Context(), user.ID, models.RoleAdmin)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to check permissions")
		return
	}
	RespondWithJSON(w, http.StatusOK, struct {
		*models.User
		IsAdmin bool `json:"is_admin"`
	}{user, isAdmin})
}
