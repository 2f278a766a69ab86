package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/animedom/animedom/internal/models"
	"github.com/animedom/animedom/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.app.Version})
}

type catalogResponse struct {
	Categories []*models.Category     `json:"categories"`
	Anime      []*models.CatalogEntry `json:"anime"`
	Selected   string                 `json:"selected"`
	Search     string                 `json:"search"`
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	page, err := s.catalog.LoadCatalog(r.Context(), r.URL.Query().Get("search"), r.URL.Query().Get("category"))
	if err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		RespondWithError(w, http.StatusInternalServerError, "Failed to load anime")
		return
	}
	RespondWithJSON(w, http.StatusOK, catalogResponse{
		Categories: page.Categories,
		Anime:      page.Visible,
		Selected:   page.Selected,
		Search:     page.Search,
	})
}

type animeResponse struct {
	*models.Anime
	Categories    []string              `json:"categories"`
	Episodes      []*models.Episode     `json:"episodes"`
	Advertisement *models.Advertisement `json:"advertisement"`
}

func (s *Server) handleGetAnime(w http.ResponseWriter, r *http.Request) {
	animeID := chi.URLParam(r, "animeID")
	page, err := s.catalog.LoadDetail(r.Context(), animeID, 0)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "Anime not found")
			return
		}
		s.logger.Error("Failed to load anime", zap.String("anime_id", animeID), zap.Error(err))
		RespondWithError(w, http.StatusInternalServerError, "Failed to load anime")
		return
	}
	RespondWithJSON(w, http.StatusOK, animeResponse{
		Anime:         page.Anime,
		Categories:    page.Categories,
		Episodes:      page.Episodes(),
		Advertisement: page.Advertisement,
	})
}

func (s *Server) handleGetActiveAdvertisement(w http.ResponseWriter, r *http.Request) {
	ad, err := s.store.ActiveAdvertisement(r.Context())
	if err != nil {
		s.logger.Error("Failed to load advertisement", zap.Error(err))
		RespondWithError(w, http.StatusInternalServerError, "Failed to load advertisement")
		return
	}
	if ad == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	RespondWithJSON(w, http.StatusOK, ad)
}
