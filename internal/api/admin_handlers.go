package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/animedom/animedom/internal/jobs"
	"github.com/animedom/animedom/internal/models"
)

func (s *Server) handleGetAdminLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.catalog.LoadAdminLists(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, lists)
}

func (s *Server) handleCreateAnime(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		models.Anime
		CategoryIDs []string `json:"category_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	anime := payload.Anime
	if err := s.catalog.CreateAnime(r.Context(), &anime, payload.CategoryIDs); err != nil {
		s.writeError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, anime)
}

func (s *Server) handleCreateEpisode(w http.ResponseWriter, r *http.Request) {
	var episode models.Episode
	if err := json.NewDecoder(r.Body).Decode(&episode); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.catalog.CreateEpisode(r.Context(), &episode); err != nil {
		s.writeError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, episode)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	category, err := s.catalog.CreateCategory(r.Context(), payload.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateAdvertisement(w http.ResponseWriter, r *http.Request) {
	var ad models.Advertisement
	if err := json.NewDecoder(r.Body).Decode(&ad); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.catalog.CreateAdvertisement(r.Context(), &ad); err != nil {
		s.writeError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, ad)
}

func (s *Server) handleToggleAdvertisement(w http.ResponseWriter, r *http.Request) {
	active, err := s.catalog.ToggleAdvertisement(r.Context(), chi.URLParam(r, "adID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]bool{"is_active": active})
}

func (s *Server) handleRunAdminJob(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		JobName string `json:"job_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := s.jobs.RunJob(payload.JobName); err != nil {
		if errors.Is(err, jobs.ErrUnknownJob) {
			RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		RespondWithError(w, http.StatusConflict, err.Error()) // 409 Conflict if a job is already running
		return
	}

	RespondWithJSON(w, http.StatusAccepted, map[string]string{
		"message": "Job '" + payload.JobName + "' started successfully.",
	})
}

func (s *Server) handleGetAdminJobsStatus(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.jobs.GetStatus())
}
