package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/animedom/animedom/internal/catalog"
	"github.com/animedom/animedom/internal/store"
)

func (s *Server) handleCatalogPage(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	selected := r.URL.Query().Get("category")

	page, err := s.catalog.LoadCatalog(r.Context(), search, selected)
	if err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		notice := errorNotice("Не удалось загрузить аниме")
		s.render(w, r, http.StatusOK, "catalog", "Каталог", catalog.EmptyCatalog(search, selected), &notice)
		return
	}
	s.render(w, r, http.StatusOK, "catalog", "Каталог", page, nil)
}

func (s *Server) handleAnimePage(w http.ResponseWriter, r *http.Request) {
	animeID := chi.URLParam(r, "animeID")
	episode, _ := strconv.Atoi(r.URL.Query().Get("episode"))

	page, err := s.catalog.LoadDetail(r.Context(), animeID, episode)
	if err != nil {
		notice := errorNotice("Не удалось загрузить данные аниме")
		if errors.Is(err, store.ErrNotFound) {
			s.render(w, r, http.StatusNotFound, "not_found", "Не найдено", nil, &notice)
			return
		}
		s.logger.Error("Failed to load anime", zap.String("anime_id", animeID), zap.Error(err))
		s.render(w, r, http.StatusInternalServerError, "not_found", "Ошибка", nil, &notice)
		return
	}
	s.render(w, r, http.StatusOK, "anime", page.Anime.Title, page, nil)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		RespondWithError(w, http.StatusNotFound, "Not found")
		return
	}
	s.render(w, r, http.StatusNotFound, "not_found", "Не найдено", nil, nil)
}

func isAPIRequest(r *http.Request) bool {
	return len(r.URL.Path) >= 4 && r.URL.Path[:4] == "/api"
}
