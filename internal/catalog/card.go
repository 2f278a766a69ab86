package catalog

import (
	"math"
	"strconv"

	"github.com/animedom/animedom/internal/models"
)

// maxCardCategories is how many category badges a card shows.
const maxCardCategories = 3

// Card is the presentational summary of an anime in the catalog grid.
type Card struct {
	ID           string
	Title        string
	CoverImage   string
	Rating       *float64
	Categories   []string
	EpisodeCount int
}

// NewCard builds the card for a catalog entry.
func NewCard(entry *models.CatalogEntry) Card {
	card := Card{
		ID:           entry.ID,
		Title:        entry.Title,
		Rating:       entry.Rating,
		Categories:   entry.Categories,
		EpisodeCount: entry.EpisodeCount,
	}
	if entry.CoverImage != nil {
		card.CoverImage = *entry.CoverImage
	}
	if len(card.Categories) > maxCardCategories {
		card.Categories = card.Categories[:maxCardCategories]
	}
	return card
}

// Link is the detail page of the card's anime.
func (c Card) Link() string { return "/anime/" + c.ID }

// HasCover is false when the placeholder icon must be shown instead of an image.
func (c Card) HasCover() bool { return c.CoverImage != "" }

// ShowRating reports whether the rating badge is rendered. A zero rating
// counts as unrated.
func (c Card) ShowRating() bool { return c.Rating != nil && *c.Rating != 0 }

// RatingLabel is the rating with one decimal place.
func (c Card) RatingLabel() string {
	if c.Rating == nil {
		return ""
	}
	return FormatRating(*c.Rating)
}

// ShowEpisodeCount reports whether the episode badge is rendered.
func (c Card) ShowEpisodeCount() bool { return c.EpisodeCount > 0 }

// EpisodeLabel is the text of the episode badge.
func (c Card) EpisodeLabel() string { return strconv.Itoa(c.EpisodeCount) + " серий" }

// FormatRating renders a rating with one decimal, rounding halves up (7.25 → "7.3").
func FormatRating(r float64) string {
	return strconv.FormatFloat(math.Round(r*10)/10, 'f', 1, 64)
}
