package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/animedom/animedom/internal/catalog"
	"github.com/animedom/animedom/internal/covers"
	"github.com/animedom/animedom/internal/models"
	"github.com/animedom/animedom/internal/store"
)

const (
	maxCoverSize = 5 << 20
	// maxAnimeFormSize bounds the whole anime form body: the cover plus
	// room for the text fields.
	maxAnimeFormSize = maxCoverSize + 1<<20
)

var errCoverTooLarge = errors.New("cover upload too large")

// Admin screen tabs.
const (
	tabAnime          = "anime"
	tabEpisodes       = "episodes"
	tabCategories     = "categories"
	tabAdvertisements = "ads"
)

// adminPage is the admin screen model. Forms hold the values to show, which
// are the rejected input after a failed submission and empty otherwise.
type adminPage struct {
	User         *models.User
	Tab          string
	Lists        *catalog.AdminLists
	AnimeForm    catalog.AnimeForm
	EpisodeForm  catalog.EpisodeForm
	CategoryForm catalog.CategoryForm
	AdForm       catalog.AdvertisementForm
	CoverUploads bool
}

func validTab(tab string) string {
	switch tab {
	case tabAnime, tabEpisodes, tabCategories, tabAdvertisements:
		return tab
	}
	return tabAnime
}

func (s *Server) newAdminPage(ctx context.Context, user *models.User, tab string) *adminPage {
	page := &adminPage{
		User:         user,
		Tab:          validTab(tab),
		CoverUploads: s.uploader != nil,
		Lists:        &catalog.AdminLists{},
	}
	lists, err := s.catalog.LoadAdminLists(ctx)
	if err != nil {
		s.logger.Error("Failed to load admin lists", zap.Error(err))
		return page
	}
	page.Lists = lists
	return page
}

func (s *Server) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	page := s.newAdminPage(r.Context(), getUserFromContext(r), r.URL.Query().Get("tab"))
	s.render(w, r, http.StatusOK, "admin", "Админ-панель", page, nil)
}

// adminSucceeded redirects back to the tab with a success notice; the
// follow-up GET shows an empty form and fresh lists.
func (s *Server) adminSucceeded(w http.ResponseWriter, r *http.Request, tab, message string) {
	setNotice(w, successNotice(message))
	http.Redirect(w, r, "/admin?tab="+url.QueryEscape(tab), http.StatusSeeOther)
}

// adminFailed renders the admin screen again with the error and the
// submitted values. fill copies the submitted form into the page.
func (s *Server) adminFailed(w http.ResponseWriter, r *http.Request, tab string, err error, fill func(*adminPage)) {
	status, message := s.writeErrorMessage(err)
	page := s.newAdminPage(r.Context(), getUserFromContext(r), tab)
	if fill != nil {
		fill(page)
	}
	notice := errorNotice(message)
	s.render(w, r, status, "admin", "Админ-панель", page, &notice)
}

// writeErrorMessage maps a failed write to a status and a message for the user.
func (s *Server) writeErrorMessage(err error) (int, string) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, verr.Message
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "Запись с таким названием уже существует"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Запись не найдена"
	case errors.Is(err, covers.ErrNotImage):
		return http.StatusUnprocessableEntity, "Обложка должна быть изображением"
	case errors.Is(err, covers.ErrDisabled):
		return http.StatusUnprocessableEntity, "Загрузка обложек не настроена"
	case errors.Is(err, errCoverTooLarge):
		return http.StatusRequestEntityTooLarge, "Обложка должна быть не больше 5 МБ"
	}
	s.logger.Error("Admin write failed", zap.Error(err))
	return http.StatusInternalServerError, "Не удалось сохранить изменения"
}

func (s *Server) handleAdminCreateAnime(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > maxAnimeFormSize {
		s.adminFailed(w, r, tabAnime, errCoverTooLarge, nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAnimeFormSize)
	if err := r.ParseMultipartForm(maxCoverSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.adminFailed(w, r, tabAnime, errCoverTooLarge, nil)
			return
		}
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := catalog.AnimeForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		CoverImage:  r.PostFormValue("cover_image"),
		Rating:      r.PostFormValue("rating"),
		ReleaseYear: r.PostFormValue("release_year"),
		Status:      r.PostFormValue("status"),
		CategoryIDs: r.PostForm["category_ids"],
	}
	fill := func(p *adminPage) { p.AnimeForm = form }

	anime, err := form.Anime()
	if err != nil {
		s.adminFailed(w, r, tabAnime, err, fill)
		return
	}

	coverURL, err := s.uploadCover(r)
	if err != nil {
		s.adminFailed(w, r, tabAnime, err, fill)
		return
	}
	if coverURL != "" {
		anime.CoverImage = &coverURL
	}

	if err := s.catalog.CreateAnime(r.Context(), anime, form.CategoryIDs); err != nil {
		if coverURL != "" {
			// The anime was not stored, so nothing refers to the cover.
			if rmErr := s.uploader.Remove(context.WithoutCancel(r.Context()), coverURL); rmErr != nil {
				s.logger.Warn("Failed to remove orphaned cover", zap.String("url", coverURL), zap.Error(rmErr))
			}
		}
		s.adminFailed(w, r, tabAnime, err, fill)
		return
	}
	s.adminSucceeded(w, r, tabAnime, "Аниме добавлено")
}

// uploadCover stores the optional cover_file upload and returns its URL,
// or "" when no file was sent.
func (s *Server) uploadCover(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	file, header, err := r.FormFile("cover_file")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	if header.Size == 0 {
		return "", nil
	}
	if s.uploader == nil {
		return "", covers.ErrDisabled
	}
	return s.uploader.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
}

func (s *Server) handleAdminCreateEpisode(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := catalog.EpisodeForm{
		AnimeID:       r.PostForm.Get("anime_id"),
		EpisodeNumber: r.PostForm.Get("episode_number"),
		Title:         r.PostForm.Get("title"),
		VideoURL:      r.PostForm.Get("video_url"),
		Duration:      r.PostForm.Get("duration"),
	}
	fill := func(p *adminPage) { p.EpisodeForm = form }

	episode, err := form.Episode()
	if err == nil {
		err = s.catalog.CreateEpisode(r.Context(), episode)
	}
	if err != nil {
		s.adminFailed(w, r, tabEpisodes, err, fill)
		return
	}
	s.adminSucceeded(w, r, tabEpisodes, "Серия добавлена")
}

func (s *Server) handleAdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := catalog.CategoryForm{Name: r.PostForm.Get("name")}

	if _, err := s.catalog.CreateCategory(r.Context(), form.Name); err != nil {
		s.adminFailed(w, r, tabCategories, err, func(p *adminPage) { p.CategoryForm = form })
		return
	}
	s.adminSucceeded(w, r, tabCategories, "Категория добавлена")
}

func (s *Server) handleAdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
		s.adminFailed(w, r, tabCategories, err, nil)
		return
	}
	s.adminSucceeded(w, r, tabCategories, "Категория удалена")
}

func (s *Server) handleAdminCreateAdvertisement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := catalog.AdvertisementForm{
		Title:       r.PostForm.Get("title"),
		VideoURL:    r.PostForm.Get("video_url"),
		RedirectURL: r.PostForm.Get("redirect_url"),
	}
	fill := func(p *adminPage) { p.AdForm = form }

	ad, err := form.Advertisement()
	if err == nil {
		err = s.catalog.CreateAdvertisement(r.Context(), ad)
	}
	if err != nil {
		s.adminFailed(w, r, tabAdvertisements, err, fill)
		return
	}
	s.adminSucceeded(w, r, tabAdvertisements, "Реклама добавлена")
}

func (s *Server) handleAdminToggleAdvertisement(w http.ResponseWriter, r *http.Request) {
	active, err := s.catalog.ToggleAdvertisement(r.Context(), chi.URLParam(r, "adID"))
	if err != nil {
		s.adminFailed(w, r, tabAdvertisements, err, nil)
		return
	}
	message := "Реклама отключена"
	if active {
		message = "Реклама включена"
	}
	s.adminSucceeded(w, r, tabAdvertisements, message)
}
