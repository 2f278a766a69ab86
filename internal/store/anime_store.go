package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/animedom/animedom/internal/models"
)

const animeColumns = `id, title, description, cover_image, rating, release_year, status, created_at`

// ListAnime returns all anime, newest first. A non-empty search keeps only
// titles containing it, ignoring case.
func (s *Store) ListAnime(ctx context.Context, search string) ([]*models.Anime, error) {
	query := `SELECT ` + animeColumns + ` FROM anime`
	var args []interface{}
	if search != "" {
		cond, arg := s.titleMatch(search)
		query += ` WHERE ` + cond
		args = append(args, arg)
	}
	query += ` ORDER BY created_at DESC`

	anime := []*models.Anime{}
	if err := s.db.SelectContext(ctx, &anime, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list anime: %w", err)
	}
	return anime, nil
}

// GetAnime retrieves a single anime by its ID.
func (s *Store) GetAnime(ctx context.Context, id string) (*models.Anime, error) {
	var anime models.Anime
	query := s.db.Rebind(`SELECT ` + animeColumns + ` FROM anime WHERE id = ?`)
	if err := s.db.GetContext(ctx, &anime, query, id); err != nil {
		return nil, notFound(err)
	}
	return &anime, nil
}

// AnimeEnrichment loads the category names and episode counts of every anime
// in ids with two queries in total, whatever the number of anime.
// Every requested id is present in the result, possibly with zero values.
func (s *Store) AnimeEnrichment(ctx context.Context, ids []string) (map[string]models.AnimeEnrichment, error) {
	result := make(map[string]models.AnimeEnrichment, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	for _, id := range ids {
		result[id] = models.AnimeEnrichment{Categories: []string{}}
	}

	query, args, err := sqlx.In(`
		SELECT ac.anime_id, c.name
		FROM anime_categories ac
		JOIN categories c ON c.id = ac.category_id
		WHERE ac.anime_id IN (?)
		ORDER BY c.name ASC`, ids)
	if err != nil {
		return nil, err
	}
	var links []struct {
		AnimeID string `db:"anime_id"`
		Name    string `db:"name"`
	}
	if err := s.db.SelectContext(ctx, &links, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load anime categories: %w", err)
	}
	for _, l := range links {
		e := result[l.AnimeID]
		e.Categories = append(e.Categories, l.Name)
		result[l.AnimeID] = e
	}

	query, args, err = sqlx.In(`
		SELECT anime_id, COUNT(*) AS episode_count
		FROM episodes
		WHERE anime_id IN (?)
		GROUP BY anime_id`, ids)
	if err != nil {
		return nil, err
	}
	var counts []struct {
		AnimeID string `db:"anime_id"`
		Count   int    `db:"episode_count"`
	}
	if err := s.db.SelectContext(ctx, &counts, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("count episodes: %w", err)
	}
	for _, c := range counts {
		e := result[c.AnimeID]
		e.EpisodeCount = c.Count
		result[c.AnimeID] = e
	}

	return result, nil
}

// CreateAnimeWithCategories inserts the anime and links it to categoryIDs
// in a single transaction: either everything is stored or nothing is.
// ID, CreatedAt and an empty Status are filled in on anime.
func (s *Store) CreateAnimeWithCategories(ctx context.Context, anime *models.Anime, categoryIDs []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	anime.ID = uuid.NewString()
	anime.CreatedAt = now()
	if anime.Status == "" {
		anime.Status = models.StatusOngoing
	}
	anime.Description = nullIfEmpty(anime.Description)
	anime.CoverImage = nullIfEmpty(anime.CoverImage)

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO anime (id, title, description, cover_image, rating, release_year, status, created_at)
		VALUES (:id, :title, :description, :cover_image, :rating, :release_year, :status, :created_at)`, anime)
	if err != nil {
		return fmt.Errorf("insert anime: %w", err)
	}

	seen := make(map[string]bool, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		if seen[categoryID] {
			continue
		}
		seen[categoryID] = true
		link := models.AnimeCategory{AnimeID: anime.ID, CategoryID: categoryID}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO anime_categories (anime_id, category_id)
			VALUES (:anime_id, :category_id)`, link); err != nil {
			return fmt.Errorf("link category %s: %w", categoryID, err)
		}
	}

	return tx.Commit()
}
