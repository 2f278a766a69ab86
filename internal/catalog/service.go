package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/animedom/animedom/internal/models"
)

// Store is the data access the catalog views need.
// *store.Store satisfies it.
type Store interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	ListAnime(ctx context.Context, search string) ([]*models.Anime, error)
	AnimeEnrichment(ctx context.Context, ids []string) (map[string]models.AnimeEnrichment, error)
	GetAnime(ctx context.Context, id string) (*models.Anime, error)
	ListEpisodes(ctx context.Context, animeID string) ([]*models.Episode, error)
	ActiveAdvertisement(ctx context.Context) (*models.Advertisement, error)
	ListAdvertisements(ctx context.Context) ([]*models.Advertisement, error)
	CreateAnimeWithCategories(ctx context.Context, anime *models.Anime, categoryIDs []string) error
	CreateEpisode(ctx context.Context, episode *models.Episode) error
	CreateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
	CreateAdvertisement(ctx context.Context, ad *models.Advertisement) error
	ToggleAdvertisement(ctx context.Context, id string) (bool, error)
}

// Service composes store reads into the data each view renders and
// validates admin writes before they reach the store.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CatalogPage is everything the catalog list view shows.
type CatalogPage struct {
	Search     string
	Selected   string
	Categories []*models.Category
	// Entries is the fetched list; Visible is Entries after the category filter.
	Entries []*models.CatalogEntry
	Visible []*models.CatalogEntry
}

// Cards returns the cards of the visible entries.
func (p *CatalogPage) Cards() []Card {
	cards := make([]Card, 0, len(p.Visible))
	for _, e := range p.Visible {
		cards = append(cards, NewCard(e))
	}
	return cards
}

// IsSelected reports whether categoryID is the active filter.
func (p *CatalogPage) IsSelected(categoryID string) bool {
	return p.Selected == categoryID
}

// EmptyMessage is shown when there is nothing to list.
func (p *CatalogPage) EmptyMessage() string {
	if p.Search != "" {
		return "Аниме не найдено"
	}
	return "Пока нет доступных аниме"
}

// EmptyCatalog is the page shown when loading failed.
func EmptyCatalog(search, selected string) *CatalogPage {
	if selected == "" {
		selected = AllCategories
	}
	return &CatalogPage{
		Search:     search,
		Selected:   selected,
		Categories: []*models.Category{},
		Entries:    []*models.CatalogEntry{},
		Visible:    []*models.CatalogEntry{},
	}
}

// LoadCatalog fetches categories and anime (filtered by search on the
// server), attaches category names and episode counts, and applies the
// category selection.
func (s *Service) LoadCatalog(ctx context.Context, search, selected string) (*CatalogPage, error) {
	page := EmptyCatalog(strings.TrimSpace(search), selected)

	var anime []*models.Anime
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Without categories the list is still shown, unfiltered.
		categories, err := s.store.ListCategories(gctx)
		if err != nil {
			s.logger.Warn("Failed to load categories", zap.Error(err))
			page.Selected = AllCategories
			return nil
		}
		page.Categories = categories
		return nil
	})
	g.Go(func() error {
		var err error
		anime, err = s.store.ListAnime(gctx, page.Search)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	ids := make([]string, len(anime))
	for i, a := range anime {
		ids[i] = a.ID
	}
	enrichment, err := s.store.AnimeEnrichment(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	page.Entries = make([]*models.CatalogEntry, 0, len(anime))
	for _, a := range anime {
		e := enrichment[a.ID]
		categories := e.Categories
		if categories == nil {
			categories = []string{}
		}
		page.Entries = append(page.Entries, &models.CatalogEntry{
			Anime:        a,
			Categories:   categories,
			EpisodeCount: e.EpisodeCount,
		})
	}
	page.Visible = FilterByCategory(page.Entries, page.Categories, page.Selected)
	return page, nil
}

// DetailPage is everything the anime detail view shows.
type DetailPage struct {
	Anime         *models.Anime
	Categories    []string
	Player        *Player
	Advertisement *models.Advertisement
}

// Episodes returns the episodes in playing order.
func (p *DetailPage) Episodes() []*models.Episode { return p.Player.Episodes }

// ShowRating reports whether the rating is rendered.
func (p *DetailPage) ShowRating() bool { return p.Anime.Rating != nil && *p.Anime.Rating != 0 }

// RatingLabel is the rating with one decimal place.
func (p *DetailPage) RatingLabel() string {
	if p.Anime.Rating == nil {
		return ""
	}
	return FormatRating(*p.Anime.Rating)
}

// LoadDetail fetches one anime with its episodes, category names and an
// active advertisement. A missing anime is reported as the store's not-found
// error. episodeNumber, when positive, preselects that episode.
func (s *Service) LoadDetail(ctx context.Context, animeID string, episodeNumber int) (*DetailPage, error) {
	anime, err := s.store.GetAnime(ctx, animeID)
	if err != nil {
		return nil, fmt.Errorf("load anime %s: %w", animeID, err)
	}

	page := &DetailPage{Anime: anime, Categories: []string{}}
	var episodes []*models.Episode

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		episodes, err = s.store.ListEpisodes(gctx, animeID)
		return err
	})
	g.Go(func() error {
		enrichment, err := s.store.AnimeEnrichment(gctx, []string{animeID})
		if err != nil {
			return err
		}
		if names := enrichment[animeID].Categories; names != nil {
			page.Categories = names
		}
		return nil
	})
	g.Go(func() error {
		// The advertisement is optional: a failure only hides it.
		ad, err := s.store.ActiveAdvertisement(gctx)
		if err != nil {
			s.logger.Warn("Failed to load advertisement", zap.Error(err))
			return nil
		}
		page.Advertisement = ad
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load anime %s: %w", animeID, err)
	}

	page.Player = NewPlayer(episodes)
	if episodeNumber > 0 {
		page.Player.Select(episodeNumber)
	}
	return page, nil
}

// AdminLists are the lists shown on the admin screen.
type AdminLists struct {
	Categories     []*models.Category      `json:"categories"`
	Anime          []*models.Anime         `json:"anime"`
	Advertisements []*models.Advertisement `json:"advertisements"`
}

// LoadAdminLists fetches the three admin lists concurrently.
func (s *Service) LoadAdminLists(ctx context.Context) (*AdminLists, error) {
	lists := &AdminLists{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lists.Categories, err = s.store.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		lists.Anime, err = s.store.ListAnime(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		lists.Advertisements, err = s.store.ListAdvertisements(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load admin lists: %w", err)
	}
	return lists, nil
}

// CreateAnime validates and stores an anime together with its category links.
func (s *Service) CreateAnime(ctx context.Context, anime *models.Anime, categoryIDs []string) error {
	if err := ValidateAnime(anime); err != nil {
		return err
	}
	if err := s.store.CreateAnimeWithCategories(ctx, anime, categoryIDs); err != nil {
		return err
	}
	s.logger.Info("Anime created", zap.String("id", anime.ID), zap.String("title", anime.Title), zap.Int("categories", len(categoryIDs)))
	return nil
}

// CreateEpisode validates and stores an episode.
func (s *Service) CreateEpisode(ctx context.Context, episode *models.Episode) error {
	if err := ValidateEpisode(episode); err != nil {
		return err
	}
	if err := s.store.CreateEpisode(ctx, episode); err != nil {
		return err
	}
	s.logger.Info("Episode created", zap.String("anime_id", episode.AnimeID), zap.Int("number", episode.EpisodeNumber))
	return nil
}

// CreateCategory stores a category named name with its derived slug.
func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "Название категории обязательно")
	}
	category := &models.Category{Name: name, Slug: Slugify(name)}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("Category created", zap.String("id", category.ID), zap.String("slug", category.Slug))
	return category, nil
}

// DeleteCategory removes a category. Nothing asks for confirmation.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Category deleted", zap.String("id", id))
	return nil
}

// CreateAdvertisement validates and stores an active advertisement.
func (s *Service) CreateAdvertisement(ctx context.Context, ad *models.Advertisement) error {
	if err := ValidateAdvertisement(ad); err != nil {
		return err
	}
	if err := s.store.CreateAdvertisement(ctx, ad); err != nil {
		return err
	}
	s.logger.Info("Advertisement created", zap.String("id", ad.ID))
	return nil
}

// ToggleAdvertisement flips an advertisement's active flag and returns the new value.
func (s *Service) ToggleAdvertisement(ctx context.Context, id string) (bool, error) {
	active, err := s.store.ToggleAdvertisement(ctx, id)
	if err != nil {
		return false, err
	}
	s.logger.Info("Advertisement toggled", zap.String("id", id), zap.Bool("active", active))
	return active, nil
}
