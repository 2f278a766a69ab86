// This file defines the core data structures (models) for the catalog.
// These structs represent anime, their episodes and the categories they belong to.

package models

import "time"

// AnimeStatus is the airing state of an anime.
type AnimeStatus string

const (
	StatusOngoing   AnimeStatus = "ongoing"
	StatusCompleted AnimeStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s AnimeStatus) Valid() bool {
	return s == StatusOngoing || s == StatusCompleted
}

// Label is the human-readable status shown on the detail page.
func (s AnimeStatus) Label() string {
	if s == StatusOngoing {
		return "Выходит"
	}
	return "Завершён"
}

// Anime represents a single catalog series.
type Anime struct {
	ID          string      `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Description *string     `db:"description" json:"description"`
	CoverImage  *string     `db:"cover_image" json:"cover_image"`
	Rating      *float64    `db:"rating" json:"rating"`
	ReleaseYear *int        `db:"release_year" json:"release_year"`
	Status      AnimeStatus `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// Episode is a single playable unit of an anime.
type Episode struct {
	ID            string    `db:"id" json:"id"`
	AnimeID       string    `db:"anime_id" json:"anime_id"`
	EpisodeNumber int       `db:"episode_number" json:"episode_number"`
	Title         *string   `db:"title" json:"title"`
	VideoURL      string    `db:"video_url" json:"video_url"`
	Duration      *int      `db:"duration" json:"duration"` // seconds
	CreatedAt     time.Time `db:"created_at" json:"-"`
}

// Category is a named tag, many-to-many with anime.
type Category struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// AnimeCategory is a row of the anime/category join table.
type AnimeCategory struct {
	AnimeID    string `db:"anime_id" json:"anime_id"`
	CategoryID string `db:"category_id" json:"category_id"`
}

// AnimeEnrichment holds the secondary data the catalog shows for an anime.
type AnimeEnrichment struct {
	Categories   []string `json:"categories"`
	EpisodeCount int      `json:"episode_count"`
}

// CatalogEntry is an anime together with its category names and episode count.
type CatalogEntry struct {
	*Anime
	Categories   []string `json:"categories"`
	EpisodeCount int      `json:"episode_count"`
}

// HasCategory reports whether the entry is linked to a category with the given name.
func (e *CatalogEntry) HasCategory(name string) bool {
	for _, c := range e.Categories {
		if c == name {
			return true
		}
	}
	return false
}
