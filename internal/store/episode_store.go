package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/animedom/animedom/internal/models"
)

// ListEpisodes returns the episodes of an anime in episode-number order.
func (s *Store) ListEpisodes(ctx context.Context, animeID string) ([]*models.Episode, error) {
	episodes := []*models.Episode{}
	query := s.db.Rebind(`
		SELECT id, anime_id, episode_number, title, video_url, duration, created_at
		FROM episodes
		WHERE anime_id = ?
		ORDER BY episode_number ASC, created_at ASC`)
	if err := s.db.SelectContext(ctx, &episodes, query, animeID); err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	return episodes, nil
}

// CreateEpisode adds an episode to an existing anime.
// Episode numbers are not required to be unique.
func (s *Store) CreateEpisode(ctx context.Context, episode *models.Episode) error {
	episode.ID = uuid.NewString()
	episode.CreatedAt = now()
	episode.Title = nullIfEmpty(episode.Title)

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO episodes (id, anime_id, episode_number, title, video_url, duration, created_at)
		VALUES (:id, :anime_id, :episode_number, :title, :video_url, :duration, :created_at)`, episode)
	if err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}
	return nil
}
