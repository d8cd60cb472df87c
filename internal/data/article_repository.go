package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const articleColumns = `a.id, a.title, a.body, a.created_at, a.last_modified_at, a.status, a.abstract, a.views, a.likes, a.topped, a.category_id`

// ArticleRepository handles database operations for articles and their tag links.
type ArticleRepository struct {
	db *sqlx.DB
}

// NewArticleRepository creates a new ArticleRepository.
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Create inserts a new article together with its tag links. Both timestamps
// are set to the current time and the generated ID is written back to a.
func (r *ArticleRepository) Create(ctx context.Context, a *Article, tagIDs []int64) error {
	if !a.Status.Valid() {
		return fmt.Errorf("invalid article status %q", a.Status)
	}
	ts := now()
	a.CreatedAt = ts
	a.UpdatedAt = ts

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO articles (title, body, created_at, last_modified_at, status, abstract, views, likes, topped, category_id)
		VALUES (:title, :body, :created_at, :last_modified_at, :status, :abstract, 0, 0, :topped, :category_id)`
	res, err := tx.NamedExecContext(ctx, query, a)
	if err != nil {
		return fmt.Errorf("failed to execute create article query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get article id: %w", err)
	}
	if err := insertArticleTags(ctx, tx, id, tagIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit article: %w", err)
	}

	a.ID = id
	a.Views = 0
	a.Likes = 0
	return nil
}

// Update writes the editable fields of a and refreshes its last-modified
// timestamp. The creation timestamp and the counters are never touched.
func (r *ArticleRepository) Update(ctx context.Context, a *Article) error {
	if !a.Status.Valid() {
		return fmt.Errorf("invalid article status %q", a.Status)
	}
	a.UpdatedAt = now()
	query := `UPDATE articles SET title = :title, body = :body, last_modified_at = :last_modified_at,
		status = :status, abstract = :abstract, topped = :topped, category_id = :category_id WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}
	return expectOneRow(result, "article", a.ID)
}

// SetStatus changes the publication status of an article.
func (r *ArticleRepository) SetStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid article status %q", status)
	}
	result, err := r.db.ExecContext(ctx, `UPDATE articles SET status = ?, last_modified_at = ? WHERE id = ?`, status, now(), id)
	if err != nil {
		return fmt.Errorf("failed to set article status: %w", err)
	}
	return expectOneRow(result, "article", id)
}

// GetByID retrieves a single article by its ID.
func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*Article, error) {
	var article Article
	query := `SELECT ` + articleColumns + ` FROM articles a WHERE a.id = ?`
	if err := r.db.GetContext(ctx, &article, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("article with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get article by id: %w", err)
	}
	return &article, nil
}

// List returns the articles matching f, most recently modified first.
func (r *ArticleRepository) List(ctx context.Context, f ArticleFilter) ([]*Article, error) {
	var (
		where []string
		args  []interface{}
	)
	query := `SELECT ` + articleColumns + ` FROM articles a`
	if f.TagID != nil {
		query += ` INNER JOIN article_tags atg ON atg.article_id = a.id`
		where = append(where, "atg.tag_id = ?")
		args = append(args, *f.TagID)
	}
	if f.Status != nil {
		where = append(where, "a.status = ?")
		args = append(args, *f.Status)
	}
	if f.CategoryID != nil {
		where = append(where, "a.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.CreatedAfter != nil {
		where = append(where, "a.created_at >= ?")
		args = append(args, f.CreatedAfter.UTC())
	}
	if f.CreatedBefore != nil {
		where = append(where, "a.created_at < ?")
		args = append(args, f.CreatedBefore.UTC())
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY a.last_modified_at DESC, a.id DESC`

	articles := []*Article{}
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// CreatedTimes returns the creation timestamp of every article, optionally
// restricted to one status.
func (r *ArticleRepository) CreatedTimes(ctx context.Context, status *Status) ([]time.Time, error) {
	query := `SELECT created_at FROM articles`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, *status)
	}
	times := []time.Time{}
	if err := r.db.SelectContext(ctx, &times, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get article creation times: %w", err)
	}
	return times, nil
}

// IncrementViews bumps the view counter. The last-modified timestamp is left
// alone so reading an article does not reorder listings.
func (r *ArticleRepository) IncrementViews(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE articles SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return expectOneRow(result, "article", id)
}

// IncrementLikes bumps the like counter.
func (r *ArticleRepository) IncrementLikes(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE articles SET likes = likes + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment likes: %w", err)
	}
	return expectOneRow(result, "article", id)
}

// SetTags replaces the tag set of an article.
func (r *ArticleRepository) SetTags(ctx context.Context, articleID int64, tagIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = ?`, articleID); err != nil {
		return fmt.Errorf("failed to clear article tags: %w", err)
	}
	if err := insertArticleTags(ctx, tx, articleID, tagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes an article along with its comments and tag links.
func (r *ArticleRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE article_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete article comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete article tags: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if err := expectOneRow(result, "article", id); err != nil {
		return err
	}
	return tx.Commit()
}

func insertArticleTags(ctx context.Context, tx *sqlx.Tx, articleID int64, tagIDs []int64) error {
	seen := make(map[int64]bool, len(tagIDs))
	for _, tagID := range tagIDs {
		if seen[tagID] {
			continue
		}
		seen[tagID] = true
		if _, err := tx.ExecContext(ctx, `INSERT INTO article_tags (article_id, tag_id) VALUES (?, ?)`, articleID, tagID); err != nil {
			return fmt.Errorf("failed to link tag %d: %w", tagID, err)
		}
	}
	return nil
}

func expectOneRow(result sql.Result, entity string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s with id %d: %w", entity, id, ErrNotFound)
	}
	return nil
}
