package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/animedom/animedom/internal/models"
)

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories := []*models.Category{}
	query := `SELECT id, name, slug, created_at FROM categories ORDER BY name ASC`
	if err := s.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory inserts a category. The caller derives the slug.
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	category.ID = uuid.NewString()
	category.CreatedAt = now()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO categories (id, name, slug, created_at)
		VALUES (:id, :name, :slug, :created_at)`, category)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", category.Name, ErrConflict)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category by ID. Links to anime are removed by
// the foreign key cascade.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM categories WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
