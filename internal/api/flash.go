package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const noticeCookieName = "notice"

// Notice is a one-shot message shown at the top of the next rendered page.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Destructive bool   `json:"destructive,omitempty"`
}

func successNotice(description string) Notice {
	return Notice{Title: "Успех", Description: description}
}

func errorNotice(description string) Notice {
	return Notice{Title: "Ошибка", Description: description, Destructive: true}
}

// setNotice stores the notice in a short-lived cookie for the page the
// client is about to be redirected to.
func setNotice(w http.ResponseWriter, n Notice) {
	raw, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popNotice returns the pending notice, if any, and clears its cookie.
func popNotice(w http.ResponseWriter, r *http.Request) *Notice {
	cookie, err := r.Cookie(noticeCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var n Notice
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return &n
}
