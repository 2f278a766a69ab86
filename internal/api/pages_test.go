package api_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animedom/animedom/internal/models"
	"github.com/animedom/animedom/internal/testutil"
)

func cardTitled(doc *goquery.Document, title string) *goquery.Selection {
	return doc.Find(".anime-card").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Find(".anime-card__title").Text()) == title
	})
}

func TestCatalogPage(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()
	st := server.Store()

	action := createCategory(t, st, "Action")
	comedy := createCategory(t, st, "Comedy")

	naruto := createAnime(t, st, &models.Anime{
		Title:      "Naruto",
		CoverImage: text("https://img.example/naruto.jpg"),
		Rating:     float(7.25),
	}, action)
	createEpisodes(t, st, naruto.ID, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
	createAnime(t, st, &models.Anime{Title: "Gintama"}, comedy)

	t.Run("cards", func(t *testing.T) {
		rr := get(router, "/")
		require.Equal(t, http.StatusOK, rr.Code)
		doc := document(t, rr)
		assert.Equal(t, 2, doc.Find(".anime-card").Length())

		card := cardTitled(doc, "Naruto")
		require.Equal(t, 1, card.Length())
		href, _ := card.Attr("href")
		assert.Equal(t, "/anime/"+naruto.ID, href)
		src, _ := card.Find("img").Attr("src")
		assert.Equal(t, "https://img.example/naruto.jpg", src)
		assert.Equal(t, 0, card.Find(".anime-card__placeholder").Length())
		assert.Equal(t, "7.3", card.Find(".badge--rating .badge__value").Text())
		assert.Equal(t, "12 серий", card.Find(".badge--episodes").Text())

		bare := cardTitled(doc, "Gintama")
		require.Equal(t, 1, bare.Length())
		assert.Equal(t, 1, bare.Find(".anime-card__placeholder").Length())
		assert.Equal(t, 0, bare.Find("img").Length(), "no image reference without a cover")
		assert.Equal(t, 0, bare.Find(".badge--rating").Length())
		assert.Equal(t, 0, bare.Find(".badge--episodes").Length())
	})

	t.Run("category filter", func(t *testing.T) {
		doc := document(t, get(router, "/?category="+action.ID))
		titles := doc.Find(".anime-card__title").Map(func(_ int, s *goquery.Selection) string {
			return strings.TrimSpace(s.Text())
		})
		assert.Equal(t, []string{"Naruto"}, titles)
		assert.Equal(t, action.ID, doc.Find(".category-filter .button--active").AttrOr("data-category", ""))

		doc = document(t, get(router, "/?category=all"))
		assert.Equal(t, 2, doc.Find(".anime-card").Length())
		assert.Equal(t, "all", doc.Find(".category-filter .button--active").AttrOr("data-category", ""))
	})

	t.Run("search", func(t *testing.T) {
		doc := document(t, get(router, "/?search=naruto"))
		assert.Equal(t, 1, doc.Find(".anime-card").Length())

		doc = document(t, get(router, "/?search="+url.QueryEscape("One Piece")))
		assert.Equal(t, 0, doc.Find(".anime-card").Length())
		assert.Equal(t, "Аниме не найдено", strings.TrimSpace(doc.Find(".empty-state__message").Text()))
	})
}

func TestCatalogPageEmpty(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	doc := document(t, get(server.Router(), "/"))
	assert.Equal(t, "Пока нет доступных аниме", strings.TrimSpace(doc.Find(".empty-state__message").Text()))
	assert.Equal(t, 0, doc.Find(".category-filter").Length())
}

func TestCatalogPageLoadFailure(t *testing.T) {
	server, database := testutil.SetupTestServer(t)
	router := server.Router()
	_, err := database.Exec(`DROP TABLE anime_categories`)
	require.NoError(t, err)
	_, err = database.Exec(`DROP TABLE episodes`)
	require.NoError(t, err)
	_, err = database.Exec(`DROP TABLE anime`)
	require.NoError(t, err)

	rr := get(router, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := document(t, rr)
	assert.Equal(t, "Ошибка", doc.Find(".notice--destructive .notice__title").Text())
	assert.Equal(t, "Не удалось загрузить аниме", doc.Find(".notice__description").Text())
	assert.Equal(t, 0, doc.Find(".anime-card").Length())
}

func TestAnimePage(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()
	st := server.Store()

	drama := createCategory(t, st, "Drama")
	anime := createAnime(t, st, &models.Anime{
		Title:       "Monster",
		Description: text("A surgeon's choice."),
		Rating:      float(8.96),
		ReleaseYear: func() *int { y := 2004; return &y }(),
		Status:      models.StatusCompleted,
	}, drama)
	createEpisodes(t, st, anime.ID, 3, 1, 2)

	ad := &models.Advertisement{Title: "Promo", VideoURL: "https://ads.example/v", RedirectURL: "https://shop.example/"}
	require.NoError(t, st.CreateAdvertisement(t.Context(), ad))

	t.Run("first episode plays", func(t *testing.T) {
		rr := get(router, "/anime/"+anime.ID)
		require.Equal(t, http.StatusOK, rr.Code)
		doc := document(t, rr)

		assert.Equal(t, "Monster", strings.TrimSpace(doc.Find(".detail__title").Text()))
		assert.Equal(t, "9.0", doc.Find(".detail__rating-value").Text())
		assert.Equal(t, "Серия 1", strings.TrimSpace(doc.Find("#player-heading").Text()))
		src, _ := doc.Find("#player-frame").Attr("src")
		assert.Equal(t, "https://video.example/embed/"+anime.ID+"/1", src)

		numbers := doc.Find(".episode-button").Map(func(_ int, s *goquery.Selection) string {
			return strings.TrimSpace(s.Text())
		})
		assert.Equal(t, []string{"1", "2", "3"}, numbers)
		assert.Equal(t, "1", strings.TrimSpace(doc.Find(".episode-button.button--active").Text()))

		third := doc.Find(`.episode-button[data-episode="3"]`)
		assert.Equal(t, "https://video.example/embed/"+anime.ID+"/3", third.AttrOr("data-video-url", ""))
		assert.Equal(t, "Серия 3", third.AttrOr("data-heading", ""))

		assert.Equal(t, "A surgeon's choice.", strings.TrimSpace(doc.Find(".description").Text()))
		assert.Contains(t, doc.Find(".details").Text(), "2004")
		assert.Contains(t, doc.Find(".details").Text(), "Завершён")
		assert.Equal(t, "Drama", doc.Find(".detail__categories .badge").Text())
	})

	t.Run("advertisement opens in a new tab", func(t *testing.T) {
		doc := document(t, get(router, "/anime/"+anime.ID))
		link := doc.Find("a.ad-card")
		require.Equal(t, 1, link.Length())
		assert.Equal(t, "https://shop.example/", link.AttrOr("href", ""))
		assert.Equal(t, "_blank", link.AttrOr("target", ""))
		assert.Equal(t, "Promo", link.Find(".ad-card__title").Text())
	})

	t.Run("episode query preselects", func(t *testing.T) {
		doc := document(t, get(router, "/anime/"+anime.ID+"?episode=3"))
		assert.Equal(t, "Серия 3", strings.TrimSpace(doc.Find("#player-heading").Text()))
		assert.Equal(t, "3", strings.TrimSpace(doc.Find(".episode-button.button--active").Text()))
	})

	t.Run("missing anime", func(t *testing.T) {
		rr := get(router, "/anime/does-not-exist")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		doc := document(t, rr)
		assert.Equal(t, "Не удалось загрузить данные аниме", doc.Find(".notice__description").Text())
	})
}

func TestAnimePageWithoutEpisodes(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	anime := createAnime(t, server.Store(), &models.Anime{Title: "Announced"})

	doc := document(t, get(server.Router(), "/anime/"+anime.ID))
	assert.Contains(t, doc.Find(".player__empty").Text(), "Нет доступных серий")
	assert.Equal(t, 0, doc.Find("#player-frame").Length())
	assert.Equal(t, 0, doc.Find(".episode-button").Length())
	assert.Equal(t, 0, doc.Find(".ad-card").Length())
	assert.Equal(t, "Описание отсутствует", strings.TrimSpace(doc.Find(".description").Text()))
	assert.Contains(t, doc.Find(".details").Text(), "Неизвестно")
	assert.Contains(t, doc.Find(".details").Text(), "Выходит")
	assert.Equal(t, 0, doc.Find(".detail__rating").Length())
}

func TestUnknownRoute(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	assert.Equal(t, http.StatusNotFound, get(router, "/nowhere").Code)

	rr := get(router, "/api/nowhere")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rr.Body.String())
}

func TestStaticAssets(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	rr := get(server.Router(), "/static/js/app.js")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "initPlayer")
}
