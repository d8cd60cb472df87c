//go:build unit

package service

import (
	"context"
	"fmt"
	"go-blog-app/internal/config"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"io"
	"sort"
	"time"
)

func testLogger() logger.Logger {
	return logger.NewWithWriter(config.LogConfig{Level: "error", Format: "json"}, io.Discard)
}

// mockArticleRepository is an in-memory implementation of ArticleRepository.
type mockArticleRepository struct {
	articles    map[int64]*data.Article
	tagLinks    map[int64][]int64 // article -> tags
	errToReturn error

	lastFilter      data.ArticleFilter
	lastTimesStatus *data.Status
	viewCalls       int
	likeCalls       int
}

var _ ArticleRepository = (*mockArticleRepository)(nil)

func newMockArticleRepository(articles ...*data.Article) *mockArticleRepository {
	m := &mockArticleRepository{articles: map[int64]*data.Article{}, tagLinks: map[int64][]int64{}}
	for _, a := range articles {
		m.articles[a.ID] = a
	}
	return m
}

func (m *mockArticleRepository) GetByID(ctx context.Context, id int64) (*data.Article, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	a, ok := m.articles[id]
	if !ok {
		return nil, fmt.Errorf("article with id %d: %w", id, data.ErrNotFound)
	}
	copied := *a
	return &copied, nil
}

func (m *mockArticleRepository) List(ctx context.Context, f data.ArticleFilter) ([]*data.Article, error) {
	m.lastFilter = f
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	var out []*data.Article
	for _, a := range m.articles {
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		if f.CategoryID != nil && (a.CategoryID == nil || *a.CategoryID != *f.CategoryID) {
			continue
		}
		if f.TagID != nil && !containsID(m.tagLinks[a.ID], *f.TagID) {
			continue
		}
		if f.CreatedAfter != nil && a.CreatedAt.Before(*f.CreatedAfter) {
			continue
		}
		if f.CreatedBefore != nil && !a.CreatedAt.Before(*f.CreatedBefore) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *mockArticleRepository) CreatedTimes(ctx context.Context, status *data.Status) ([]time.Time, error) {
	m.lastTimesStatus = status
	var times []time.Time
	for _, a := range m.articles {
		if status == nil || a.Status == *status {
			times = append(times, a.CreatedAt)
		}
	}
	return times, nil
}

func (m *mockArticleRepository) IncrementViews(ctx context.Context, id int64) error {
	m.viewCalls++
	if a, ok := m.articles[id]; ok {
		a.Views++
		return nil
	}
	return data.ErrNotFound
}

func (m *mockArticleRepository) IncrementLikes(ctx context.Context, id int64) error {
	m.likeCalls++
	if a, ok := m.articles[id]; ok {
		a.Likes++
		return nil
	}
	return data.ErrNotFound
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// mockCategoryRepository is a mock implementation of the CategoryRepository interface.
type mockCategoryRepository struct {
	categories []*data.Category
}

var _ CategoryRepository = (*mockCategoryRepository)(nil)

func (m *mockCategoryRepository) GetAll(ctx context.Context) ([]*data.Category, error) {
	return m.categories, nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int64) (*data.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("category with id %d: %w", id, data.ErrNotFound)
}

// mockTagRepository is a mock implementation of the TagRepository interface.
type mockTagRepository struct {
	tags     []*data.Tag
	articles *mockArticleRepository
}

var _ TagRepository = (*mockTagRepository)(nil)

func (m *mockTagRepository) GetAll(ctx context.Context) ([]*data.Tag, error) {
	return m.tags, nil
}

func (m *mockTagRepository) GetByID(ctx context.Context, id int64) (*data.Tag, error) {
	for _, t := range m.tags {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("tag with id %d: %w", id, data.ErrNotFound)
}

func (m *mockTagRepository) GetByArticle(ctx context.Context, articleID int64) ([]*data.Tag, error) {
	var out []*data.Tag
	if m.articles == nil {
		return out, nil
	}
	for _, id := range m.articles.tagLinks[articleID] {
		if t, err := m.GetByID(ctx, id); err == nil {
			out = append(out, t)
		}
	}
	return out, nil
}

// mockCommentRepository is a mock implementation of the CommentRepository interface.
type mockCommentRepository struct {
	comments    []*data.Comment
	createCalls int
}

var _ CommentRepository = (*mockCommentRepository)(nil)

func (m *mockCommentRepository) Create(ctx context.Context, c *data.Comment) error {
	m.createCalls++
	c.ID = int64(len(m.comments) + 1)
	c.CreatedAt = time.Now()
	m.comments = append(m.comments, c)
	return nil
}

func (m *mockCommentRepository) ListByArticle(ctx context.Context, articleID int64) ([]*data.Comment, error) {
	var out []*data.Comment
	for _, c := range m.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentRepository) CountByArticle(ctx context.Context, articleID int64) (int, error) {
	out, _ := m.ListByArticle(ctx, articleID)
	return len(out), nil
}
