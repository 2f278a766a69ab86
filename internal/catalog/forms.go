package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/animedom/animedom/internal/models"
)

// ValidationError is a user-facing problem with submitted input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AnimeForm is the anime form as submitted. Values stay raw strings so a
// rejected form can be shown again exactly as it was typed.
type AnimeForm struct {
	Title       string
	Description string
	CoverImage  string
	Rating      string
	ReleaseYear string
	Status      string
	CategoryIDs []string
}

// HasCategory reports whether the category toggle is on.
func (f AnimeForm) HasCategory(id string) bool {
	for _, c := range f.CategoryIDs {
		if c == id {
			return true
		}
	}
	return false
}

// SelectedStatus is the status the form shows as chosen.
func (f AnimeForm) SelectedStatus() models.AnimeStatus {
	if f.Status == "" {
		return models.StatusOngoing
	}
	return models.AnimeStatus(f.Status)
}

// Anime converts the form. An empty rating or year becomes null.
func (f AnimeForm) Anime() (*models.Anime, error) {
	anime := &models.Anime{
		Title:       strings.TrimSpace(f.Title),
		Description: optional(f.Description),
		CoverImage:  optional(f.CoverImage),
		Status:      models.AnimeStatus(strings.TrimSpace(f.Status)),
	}
	if anime.Status == "" {
		anime.Status = models.StatusOngoing
	}

	if s := strings.TrimSpace(f.Rating); s != "" {
		rating, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil {
			return nil, invalid("rating", "Рейтинг должен быть числом от 0 до 10")
		}
		anime.Rating = &rating
	}
	if s := strings.TrimSpace(f.ReleaseYear); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			return nil, invalid("release_year", "Год выхода должен быть целым числом")
		}
		anime.ReleaseYear = &year
	}

	if err := ValidateAnime(anime); err != nil {
		return nil, err
	}
	return anime, nil
}

// ValidateAnime checks the fields a new anime must satisfy.
func ValidateAnime(anime *models.Anime) error {
	if strings.TrimSpace(anime.Title) == "" {
		return invalid("title", "Название обязательно")
	}
	if r := anime.Rating; r != nil && (math.IsNaN(*r) || math.IsInf(*r, 0) || *r < 0 || *r > 10) {
		return invalid("rating", "Рейтинг должен быть числом от 0 до 10")
	}
	if anime.ReleaseYear != nil && *anime.ReleaseYear <= 0 {
		return invalid("release_year", "Год выхода должен быть целым числом")
	}
	if anime.Status == "" {
		anime.Status = models.StatusOngoing
	}
	if !anime.Status.Valid() {
		return invalid("status", "Неизвестный статус")
	}
	return nil
}

// EpisodeForm is the episode form as submitted.
type EpisodeForm struct {
	AnimeID       string
	EpisodeNumber string
	Title         string
	VideoURL      string
	Duration      string
}

// Episode converts the form.
func (f EpisodeForm) Episode() (*models.Episode, error) {
	episode := &models.Episode{
		AnimeID:  strings.TrimSpace(f.AnimeID),
		Title:    optional(f.Title),
		VideoURL: strings.TrimSpace(f.VideoURL),
	}

	number, err := strconv.Atoi(strings.TrimSpace(f.EpisodeNumber))
	if err != nil {
		return nil, invalid("episode_number", "Номер серии должен быть положительным целым числом")
	}
	episode.EpisodeNumber = number

	if s := strings.TrimSpace(f.Duration); s != "" {
		duration, err := strconv.Atoi(s)
		if err != nil || duration < 0 {
			return nil, invalid("duration", "Длительность должна быть целым числом секунд")
		}
		episode.Duration = &duration
	}

	if err := ValidateEpisode(episode); err != nil {
		return nil, err
	}
	return episode, nil
}

// ValidateEpisode checks the fields a new episode must satisfy.
func ValidateEpisode(episode *models.Episode) error {
	if episode.AnimeID == "" {
		return invalid("anime_id", "Выберите аниме")
	}
	if episode.EpisodeNumber <= 0 {
		return invalid("episode_number", "Номер серии должен быть положительным целым числом")
	}
	if strings.TrimSpace(episode.VideoURL) == "" {
		return invalid("video_url", "URL видео обязателен")
	}
	return nil
}

// CategoryForm is the category form as submitted.
type CategoryForm struct {
	Name string
}

// AdvertisementForm is the advertisement form as submitted.
type AdvertisementForm struct {
	Title       string
	VideoURL    string
	RedirectURL string
}

// Advertisement converts the form.
func (f AdvertisementForm) Advertisement() (*models.Advertisement, error) {
	ad := &models.Advertisement{
		Title:       strings.TrimSpace(f.Title),
		VideoURL:    strings.TrimSpace(f.VideoURL),
		RedirectURL: strings.TrimSpace(f.RedirectURL),
	}
	if err := ValidateAdvertisement(ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// ValidateAdvertisement checks the fields a new advertisement must satisfy.
func ValidateAdvertisement(ad *models.Advertisement) error {
	switch {
	case strings.TrimSpace(ad.Title) == "":
		return invalid("title", "Название обязательно")
	case strings.TrimSpace(ad.VideoURL) == "":
		return invalid("video_url", "URL видео обязателен")
	case strings.TrimSpace(ad.RedirectURL) == "":
		return invalid("redirect_url", "Ссылка перехода обязательна")
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
