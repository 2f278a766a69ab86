// It defines the HTTP server, sets up the routes (pages and JSON endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/animedom/animedom/internal/assets"
	"github.com/animedom/animedom/internal/catalog"
	"github.com/animedom/animedom/internal/core"
	"github.com/animedom/animedom/internal/covers"
	"github.com/animedom/animedom/internal/jobs"
	"github.com/animedom/animedom/internal/store"
)

// Server holds the dependencies for the web application.
type Server struct {
	app      *core.App
	store    *store.Store
	catalog  *catalog.Service
	jobs     *jobs.Manager
	uploader covers.Uploader
	pages    *renderer
	logger   *zap.Logger
}

// NewServer creates a new Server instance. Templates are parsed up front so a
// broken template fails at startup rather than on first request.
func NewServer(app *core.App) (*Server, error) {
	logger := app.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pages, err := newRenderer(assets.WebFS)
	if err != nil {
		return nil, err
	}

	st := store.New(app.DB)
	s := &Server{
		app:     app,
		store:   st,
		catalog: catalog.NewService(st, logger),
		jobs:    jobs.NewManager(context.Background(), logger),
		pages:   pages,
		logger:  logger,
	}
	jobs.RegisterDefaults(s.jobs, st)

	storage := app.Config.Storage
	if u := covers.NewSupabaseUploader(storage.URL, storage.Key, storage.Bucket); u != nil {
		s.uploader = u
	}
	return s, nil
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// Jobs returns the background job manager.
func (s *Server) Jobs() *jobs.Manager {
	return s.jobs
}

// SetUploader replaces the cover uploader, mainly for tests.
func (s *Server) SetUploader(u covers.Uploader) {
	s.uploader = u
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.app.Config.RequestTimeout()))
	r.Use(s.loadSession)

	staticFS, err := fs.Sub(assets.WebFS, "web/static")
	if err != nil {
		// The directory is embedded at build time, so this cannot happen at runtime.
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Pages
	r.Get("/", s.handleCatalogPage)
	r.Get("/anime/{animeID}", s.handleAnimePage)
	r.Get("/auth", s.handleAuthPage)
	r.Post("/auth/login", s.handleLoginForm)
	r.Post("/auth/signup", s.handleSignupForm)
	r.Post("/auth/logout", s.handleLogoutForm)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.adminPageGate)

		r.Get("/", s.handleAdminPage)
		r.Post("/anime", s.handleAdminCreateAnime)
		r.Post("/episodes", s.handleAdminCreateEpisode)
		r.Post("/categories", s.handleAdminCreateCategory)
		r.Post("/categories/{categoryID}/delete", s.handleAdminDeleteCategory)
		r.Post("/advertisements", s.handleAdminCreateAdvertisement)
		r.Post("/advertisements/{adID}/toggle", s.handleAdminToggleAdvertisement)
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.app.Config.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Get("/health", s.handleHealth)
		r.Get("/catalog", s.handleGetCatalog)
		r.Get("/anime/{animeID}", s.handleGetAnime)
		r.Get("/advertisements/active", s.handleGetActiveAdvertisement)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireUser)

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleGetMe)

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.AdminOnlyMiddleware)

				r.Get("/lists", s.handleGetAdminLists)
				r.Post("/anime", s.handleCreateAnime)
				r.Post("/episodes", s.handleCreateEpisode)
				r.Post("/categories", s.handleCreateCategory)
				r.Delete("/categories/{categoryID}", s.handleDeleteCategory)
				r.Post("/advertisements", s.handleCreateAdvertisement)
				r.Post("/advertisements/{adID}/toggle", s.handleToggleAdvertisement)

				r.Get("/jobs/status", s.handleGetAdminJobsStatus)
				r.Post("/jobs/run", s.handleRunAdminJob)
			})
		})
	})

	r.NotFound(s.handleNotFound)

	return r
}
