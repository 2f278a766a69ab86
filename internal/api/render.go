package api

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/animedom/animedom/internal/catalog"
	"github.com/animedom/animedom/internal/models"
)

// pageNames are the templates under web/templates that render a full page.
var pageNames = []string{"catalog", "anime", "admin", "auth", "not_found"}

// renderer holds one template set per page, each sharing the layout and partials.
type renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"str": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"int": func(n *int) string {
		if n == nil {
			return ""
		}
		return strconv.Itoa(*n)
	},
	"rating": func(r *float64) string {
		if r == nil {
			return ""
		}
		return catalog.FormatRating(*r)
	},
	"episodeHeading": catalog.EpisodeHeading,
	"statuses": func() []models.AnimeStatus {
		return []models.AnimeStatus{models.StatusOngoing, models.StatusCompleted}
	},
}

func newRenderer(webFS fs.FS) (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(webFS,
			"web/templates/layout.html",
			"web/templates/partials/*.html",
			"web/templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// pageData is what every page template receives.
type pageData struct {
	Title   string
	User    *models.User
	IsAdmin bool
	Notice  *Notice
	Content any
}

// render writes a full page. A notice passed in takes precedence over a
// pending flash notice.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, content any, notice *Notice) {
	data := pageData{
		Title:   title,
		User:    getUserFromContext(r),
		Notice:  popNotice(w, r),
		Content: content,
	}
	if notice != nil {
		data.Notice = notice
	}
	if data.User != nil {
		isAdmin, err := s.store.HasRole(r.Context(), data.User.ID, models.RoleAdmin)
		if err != nil {
			s.logger.Warn("Failed to check admin role", zap.String("user_id", data.User.ID), zap.Error(err))
		}
		data.IsAdmin = isAdmin
	}

	t, ok := s.pages.pages[page]
	if !ok {
		s.logger.Error("Unknown page template", zap.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.logger.Error("Failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
