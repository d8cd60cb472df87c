package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetAll retrieves all categories ordered by name.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*Category, error) {
	categories := []*Category{}
	err := r.db.SelectContext(ctx, &categories, "SELECT id, name, created_at, last_modified_at FROM categories ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// Save creates a new category and returns its ID.
func (r *CategoryRepository) Save(ctx context.Context, category *Category) (int64, error) {
	ts := now()
	category.CreatedAt = ts
	category.UpdatedAt = ts
	res, err := r.db.NamedExecContext(ctx,
		"INSERT INTO categories (name, created_at, last_modified_at) VALUES (:name, :created_at, :last_modified_at)", category)
	if err != nil {
		return 0, fmt.Errorf("failed to create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	category.ID = id
	return id, nil
}

// GetByID finds a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*Category, error) {
	var category Category
	err := r.db.GetContext(ctx, &category, "SELECT id, name, created_at, last_modified_at FROM categories WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}
	return &category, nil
}

// Delete removes a category. Its articles are kept and lose their category.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE articles SET category_id = NULL WHERE category_id = ?", id); err != nil {
		return fmt.Errorf("failed to detach articles from category: %w", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if err := expectOneRow(result, "category", id); err != nil {
		return err
	}
	return tx.Commit()
}
