package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animedom/animedom/internal/models"
	"github.com/animedom/animedom/internal/store"
	"github.com/animedom/animedom/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestAnimeStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := store.New(testutil.SetupTestDB(t))

	rating := 8.5
	year := 2002
	anime := &models.Anime{
		Title:       "Naruto",
		Description: strPtr("Ninja"),
		CoverImage:  strPtr(""),
		Rating:      &rating,
		ReleaseYear: &year,
	}
	require.NoError(t, s.CreateAnimeWithCategories(ctx, anime, nil))
	assert.NotEmpty(t, anime.ID)
	assert.Equal(t, models.StatusOngoing, anime.Status)

	got, err := s.GetAnime(ctx, anime.ID)
	require.NoError(t, err)
	assert.Equal(t, "Naruto", got.Title)
	assert.Equal(t, "Ninja", *got.Description)
	assert.Nil(t, got.CoverImage, "empty cover should be stored as NULL")
	assert.InDelta(t, 8.5, *got.Rating, 0.0001)
	assert.Equal(t, 2002, *got.ReleaseYear)

	_, err = s.GetAnime(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAnimeStore_CreateWithCategoriesIsAtomic(t *testing.T) {
	ctx := context.Background()
	database := testutil.SetupTestDB(t)
	s := store.New(database)

	action := &models.Category{Name: "Action", Slug: "action"}
	require.NoError(t, s.CreateCategory(ctx, action))

	t.Run("links every category", func(t *testing.T) {
		anime := &models.Anime{Title: "Bleach"}
		require.NoError(t, s.CreateAnimeWithCategories(ctx, anime, []string{action.ID, action.ID}))

		enrichment, err := s.AnimeEnrichment(ctx, []string{anime.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"Action"}, enrichment[anime.ID].Categories)

		var links []models.AnimeCategory
		require.NoError(t, database.Select(&links, `SELECT anime_id, category_id FROM anime_categories WHERE anime_id = ?`, anime.ID))
		assert.Equal(t, []models.AnimeCategory{{AnimeID: anime.ID, CategoryID: action.ID}}, links)
	})

	t.Run("unknown category rolls the anime back", func(t *testing.T) {
		anime := &models.Anime{Title: "One Piece"}
		err := s.CreateAnimeWithCategories(ctx, anime, []string{action.ID, "no-such-category"})
		require.Error(t, err)

		var count int
		require.NoError(t, database.Get(&count, "SELECT COUNT(*) FROM anime WHERE title = 'One Piece'"))
		assert.Zero(t, count)
	})
}

func TestAnimeStore_ListAnime(t *testing.T) {
	ctx := context.Background()
	database := testutil.SetupTestDB(t)
	s := store.New(database)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"Naruto", "Boruto: Naruto Next Generations", "Bleach", "100%_Match"} {
		_, err := database.Exec(
			`INSERT INTO anime (id, title, status, created_at) VALUES (?, ?, 'ongoing', ?)`,
			title, title, base.Add(time.Duration(i)*time.Hour),
		)
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		anime, err := s.ListAnime(ctx, "")
		require.NoError(t, err)
		require.Len(t, anime, 4)
		assert.Equal(t, "100%_Match", anime[0].Title)
		assert.Equal(t, "Naruto", anime[3].Title)
	})

	t.Run("case-insensitive substring search", func(t *testing.T) {
		anime, err := s.ListAnime(ctx, "naruto")
		require.NoError(t, err)
		require.Len(t, anime, 2)
		assert.Equal(t, "Boruto: Naruto Next Generations", anime[0].Title)
		assert.Equal(t, "Naruto", anime[1].Title)
	})

	t.Run("wildcards in the search are literal", func(t *testing.T) {
		anime, err := s.ListAnime(ctx, "%_")
		require.NoError(t, err)
		require.Len(t, anime, 1)
		assert.Equal(t, "100%_Match", anime[0].Title)
	})

	t.Run("no match", func(t *testing.T) {
		anime, err := s.ListAnime(ctx, "evangelion")
		require.NoError(t, err)
		assert.Empty(t, anime)
	})

	t.Run("cyrillic titles ignore case", func(t *testing.T) {
		_, err := database.Exec(
			`INSERT INTO anime (id, title, status, created_at) VALUES ('ru', 'Наруто: Ураганные хроники', 'ongoing', ?)`,
			base.Add(10*time.Hour),
		)
		require.NoError(t, err)

		for _, term := range []string{"Наруто", "наруто", "НАРУТО", "ураганные"} {
			anime, err := s.ListAnime(ctx, term)
			require.NoError(t, err)
			require.Len(t, anime, 1, term)
			assert.Equal(t, "ru", anime[0].ID, term)
		}
	})
}

func TestAnimeStore_AnimeEnrichment(t *testing.T) {
	ctx := context.Background()
	s := store.New(testutil.SetupTestDB(t))

	comedy := &models.Category{Name: "Comedy", Slug: "comedy"}
	action := &models.Category{Name: "Action", Slug: "action"}
	require.NoError(t, s.CreateCategory(ctx, comedy))
	require.NoError(t, s.CreateCategory(ctx, action))

	a := &models.Anime{Title: "A"}
	b := &models.Anime{Title: "B"}
	require.NoError(t, s.CreateAnimeWithCategories(ctx, a, []string{comedy.ID, action.ID}))
	require.NoError(t, s.CreateAnimeWithCategories(ctx, b, nil))
	for n := 1; n <= 3; n++ {
		require.NoError(t, s.CreateEpisode(ctx, &models.Episode{AnimeID: a.ID, EpisodeNumber: n, VideoURL: "https://v"}))
	}

	enrichment, err := s.AnimeEnrichment(ctx, []string{a.ID, b.ID})
	require.NoError(t, err)

	assert.Equal(t, []string{"Action", "Comedy"}, enrichment[a.ID].Categories)
	assert.Equal(t, 3, enrichment[a.ID].EpisodeCount)
	assert.Empty(t, enrichment[b.ID].Categories)
	assert.NotNil(t, enrichment[b.ID].Categories)
	assert.Zero(t, enrichment[b.ID].EpisodeCount)

	empty, err := s.AnimeEnrichment(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
