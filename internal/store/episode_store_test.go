package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animedom/animedom/internal/models"
	"github.com/animedom/animedom/internal/store"
	"github.com/animedom/animedom/internal/testutil"
)

func TestEpisodeStore(t *testing.T) {
	ctx := context.Background()
	s := store.New(testutil.SetupTestDB(t))

	anime := &models.Anime{Title: "Cowboy Bebop"}
	require.NoError(t, s.CreateAnimeWithCategories(ctx, anime, nil))

	t.Run("episodes come back in number order", func(t *testing.T) {
		for _, n := range []int{3, 1, 2} {
			ep := &models.Episode{AnimeID: anime.ID, EpisodeNumber: n, VideoURL: "https://example.com/embed/" + string(rune('0'+n))}
			require.NoError(t, s.CreateEpisode(ctx, ep))
		}

		episodes, err := s.ListEpisodes(ctx, anime.ID)
		require.NoError(t, err)
		require.Len(t, episodes, 3)
		for i, ep := range episodes {
			assert.Equal(t, i+1, ep.EpisodeNumber)
			assert.Nil(t, ep.Title)
		}
	})

	t.Run("optional title and duration", func(t *testing.T) {
		duration := 1440
		ep := &models.Episode{AnimeID: anime.ID, EpisodeNumber: 4, Title: strPtr("Jupiter Jazz"), VideoURL: "https://v", Duration: &duration}
		require.NoError(t, s.CreateEpisode(ctx, ep))

		episodes, err := s.ListEpisodes(ctx, anime.ID)
		require.NoError(t, err)
		last := episodes[len(episodes)-1]
		assert.Equal(t, "Jupiter Jazz", *last.Title)
		assert.Equal(t, 1440, *last.Duration)
	})

	t.Run("unknown anime is rejected", func(t *testing.T) {
		err := s.CreateEpisode(ctx, &models.Episode{AnimeID: "missing", EpisodeNumber: 1, VideoURL: "https://v"})
		assert.Error(t, err)
	})

	t.Run("anime without episodes", func(t *testing.T) {
		episodes, err := s.ListEpisodes(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, episodes)
	})
}
