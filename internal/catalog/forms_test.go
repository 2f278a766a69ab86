package catalog

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animedom/animedom/internal/models"
)

func TestAnimeForm(t *testing.T) {
	t.Run("full form", func(t *testing.T) {
		anime, err := AnimeForm{
			Title:       " Naruto ",
			Description: "Ninja",
			CoverImage:  "https://img.example/n.jpg",
			Rating:      "8,5",
			ReleaseYear: "2002",
			Status:      "completed",
		}.Anime()
		require.NoError(t, err)
		assert.Equal(t, "Naruto", anime.Title)
		assert.Equal(t, "Ninja", *anime.Description)
		assert.Equal(t, 8.5, *anime.Rating)
		assert.Equal(t, 2002, *anime.ReleaseYear)
		assert.Equal(t, models.StatusCompleted, anime.Status)
	})

	t.Run("optional fields left empty", func(t *testing.T) {
		anime, err := AnimeForm{Title: "Bare"}.Anime()
		require.NoError(t, err)
		assert.Nil(t, anime.Description)
		assert.Nil(t, anime.CoverImage)
		assert.Nil(t, anime.Rating)
		assert.Nil(t, anime.ReleaseYear)
		assert.Equal(t, models.StatusOngoing, anime.Status)
	})

	testCases := []struct {
		name  string
		form  AnimeForm
		field string
	}{
		{"missing title", AnimeForm{Title: "  "}, "title"},
		{"rating not a number", AnimeForm{Title: "x", Rating: "good"}, "rating"},
		{"rating out of range", AnimeForm{Title: "x", Rating: "11"}, "rating"},
		{"rating NaN", AnimeForm{Title: "x", Rating: "NaN"}, "rating"},
		{"rating infinite", AnimeForm{Title: "x", Rating: "+Inf"}, "rating"},
		{"year not a number", AnimeForm{Title: "x", ReleaseYear: "soon"}, "release_year"},
		{"unknown status", AnimeForm{Title: "x", Status: "paused"}, "status"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.form.Anime()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestValidateAnimeRejectsNonFiniteRating(t *testing.T) {
	for _, r := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		rating := r
		err := ValidateAnime(&models.Anime{Title: "x", Rating: &rating})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "rating %v", r)
		assert.Equal(t, "rating", verr.Field)
	}
}

func TestAnimeFormHasCategory(t *testing.T) {
	f := AnimeForm{CategoryIDs: []string{"c1", "c2"}}
	assert.True(t, f.HasCategory("c2"))
	assert.False(t, f.HasCategory("c3"))
}

func TestEpisodeForm(t *testing.T) {
	episode, err := EpisodeForm{
		AnimeID:       "a1",
		EpisodeNumber: "4",
		Title:         "",
		VideoURL:      "https://video.example/4.mp4",
		Duration:      "1440",
	}.Episode()
	require.NoError(t, err)
	assert.Equal(t, 4, episode.EpisodeNumber)
	assert.Nil(t, episode.Title)
	assert.Equal(t, 1440, *episode.Duration)

	testCases := []struct {
		name  string
		form  EpisodeForm
		field string
	}{
		{"no anime selected", EpisodeForm{EpisodeNumber: "1", VideoURL: "v"}, "anime_id"},
		{"zero number", EpisodeForm{AnimeID: "a1", EpisodeNumber: "0", VideoURL: "v"}, "episode_number"},
		{"number not an integer", EpisodeForm{AnimeID: "a1", EpisodeNumber: "1.5", VideoURL: "v"}, "episode_number"},
		{"missing video", EpisodeForm{AnimeID: "a1", EpisodeNumber: "1"}, "video_url"},
		{"negative duration", EpisodeForm{AnimeID: "a1", EpisodeNumber: "1", VideoURL: "v", Duration: "-5"}, "duration"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.form.Episode()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestAdvertisementForm(t *testing.T) {
	ad, err := AdvertisementForm{Title: "Promo", VideoURL: "v", RedirectURL: "https://shop.example"}.Advertisement()
	require.NoError(t, err)
	assert.Equal(t, "Promo", ad.Title)

	_, err = AdvertisementForm{Title: "Promo", VideoURL: "v"}.Advertisement()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "redirect_url", verr.Field)
}
