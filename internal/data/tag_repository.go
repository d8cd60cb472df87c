package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TagRepository handles database operations for tags.
type TagRepository struct {
	db *sqlx.DB
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db *sqlx.DB) *TagRepository {
	return &TagRepository{db: db}
}

// GetAll retrieves all tags ordered by name.
func (r *TagRepository) GetAll(ctx context.Context) ([]*Tag, error) {
	tags := []*Tag{}
	err := r.db.SelectContext(ctx, &tags, "SELECT id, name, created_at, last_modified_at FROM tags ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	return tags, nil
}

// GetByArticle returns the tags linked to an article, ordered by name.
func (r *TagRepository) GetByArticle(ctx context.Context, articleID int64) ([]*Tag, error) {
	tags := []*Tag{}
	query := `
		SELECT t.id, t.name, t.created_at, t.last_modified_at FROM tags t
		INNER JOIN article_tags atg ON t.id = atg.tag_id
		WHERE atg.article_id = ?
		ORDER BY t.name, t.id`
	if err := r.db.SelectContext(ctx, &tags, query, articleID); err != nil {
		return nil, fmt.Errorf("failed to get tags for article %d: %w", articleID, err)
	}
	return tags, nil
}

// Save creates a new tag and returns its ID.
func (r *TagRepository) Save(ctx context.Context, tag *Tag) (int64, error) {
	ts := now()
	tag.CreatedAt = ts
	tag.UpdatedAt = ts
	res, err := r.db.NamedExecContext(ctx,
		"INSERT INTO tags (name, created_at, last_modified_at) VALUES (:name, :created_at, :last_modified_at)", tag)
	if err != nil {
		return 0, fmt.Errorf("failed to create tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	tag.ID = id
	return id, nil
}

// GetByID finds a tag by its ID.
func (r *TagRepository) GetByID(ctx context.Context, id int64) (*Tag, error) {
	var tag Tag
	err := r.db.GetContext(ctx, &tag, "SELECT id, name, created_at, last_modified_at FROM tags WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tag with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tag by id: %w", err)
	}
	return &tag, nil
}

// Delete removes a tag and unlinks it from every article.
func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM article_tags WHERE tag_id = ?", id); err != nil {
		return fmt.Errorf("failed to unlink tag: %w", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	if err := expectOneRow(result, "tag", id); err != nil {
		return err
	}
	return tx.Commit()
}
