package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CommentRepository handles database operations for article comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts c and fills in its ID and creation time.
func (r *CommentRepository) Create(ctx context.Context, c *Comment) error {
	c.CreatedAt = now()
	query := `INSERT INTO comments (article_id, user_name, user_email, body, created_at)
		VALUES (:article_id, :user_name, :user_email, :body, :created_at)`
	res, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get comment id: %w", err)
	}
	c.ID = id
	return nil
}

// ListByArticle returns the comments of an article, oldest first.
func (r *CommentRepository) ListByArticle(ctx context.Context, articleID int64) ([]*Comment, error) {
	comments := []*Comment{}
	query := `SELECT id, article_id, user_name, user_email, body, created_at FROM comments
		WHERE article_id = ? ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &comments, query, articleID); err != nil {
		return nil, fmt.Errorf("failed to get comments for article %d: %w", articleID, err)
	}
	return comments, nil
}

// CountByArticle returns how many comments an article has.
func (r *CommentRepository) CountByArticle(ctx context.Context, articleID int64) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM comments WHERE article_id = ?`, articleID); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return n, nil
}
