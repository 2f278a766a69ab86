package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/animedom/animedom/internal/models"
)

const advertisementColumns = `id, title, video_url, redirect_url, is_active, created_at`

// ListAdvertisements returns every advertisement, newest first.
func (s *Store) ListAdvertisements(ctx context.Context) ([]*models.Advertisement, error) {
	ads := []*models.Advertisement{}
	query := `SELECT ` + advertisementColumns + ` FROM advertisements ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &ads, query); err != nil {
		return nil, fmt.Errorf("list advertisements: %w", err)
	}
	return ads, nil
}

// ActiveAdvertisement returns one active advertisement, the most recently
// created, or nil when none is active.
func (s *Store) ActiveAdvertisement(ctx context.Context) (*models.Advertisement, error) {
	var ad models.Advertisement
	query := s.db.Rebind(`SELECT ` + advertisementColumns + ` FROM advertisements
		WHERE is_active = ?
		ORDER BY created_at DESC
		LIMIT 1`)
	err := s.db.GetContext(ctx, &ad, query, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load active advertisement: %w", err)
	}
	return &ad, nil
}

// CreateAdvertisement inserts an advertisement. New advertisements are active.
func (s *Store) CreateAdvertisement(ctx context.Context, ad *models.Advertisement) error {
	ad.ID = uuid.NewString()
	ad.CreatedAt = now()
	ad.IsActive = true

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO advertisements (id, title, video_url, redirect_url, is_active, created_at)
		VALUES (:id, :title, :video_url, :redirect_url, :is_active, :created_at)`, ad)
	if err != nil {
		return fmt.Errorf("insert advertisement: %w", err)
	}
	return nil
}

// ToggleAdvertisement flips the active flag and returns its new value.
func (s *Store) ToggleAdvertisement(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var active bool
	if err := tx.GetContext(ctx, &active, tx.Rebind(`SELECT is_active FROM advertisements WHERE id = ?`), id); err != nil {
		return false, notFound(err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE advertisements SET is_active = ? WHERE id = ?`), !active, id); err != nil {
		return false, fmt.Errorf("toggle advertisement: %w", err)
	}
	return !active, tx.Commit()
}
