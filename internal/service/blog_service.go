package service

import (
	"context"
	"fmt"
	"go-blog-app/internal/data"
	"html/template"
	"time"
)

// ArticleRepository defines the article queries the blog pages need.
type ArticleRepository interface {
	GetByID(ctx context.Context, id int64) (*data.Article, error)
	List(ctx context.Context, f data.ArticleFilter) ([]*data.Article, error)
	CreatedTimes(ctx context.Context, status *data.Status) ([]time.Time, error)
	IncrementViews(ctx context.Context, id int64) error
	IncrementLikes(ctx context.Context, id int64) error
}

// CategoryRepository defines the category queries the blog pages need.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]*data.Category, error)
	GetByID(ctx context.Context, id int64) (*data.Category, error)
}

// TagRepository defines the tag queries the blog pages need.
type TagRepository interface {
	GetAll(ctx context.Context) ([]*data.Tag, error)
	GetByID(ctx context.Context, id int64) (*data.Tag, error)
	GetByArticle(ctx context.Context, articleID int64) ([]*data.Tag, error)
}

// CommentRepository defines the comment operations used by the services.
type CommentRepository interface {
	Create(ctx context.Context, c *data.Comment) error
	ListByArticle(ctx context.Context, articleID int64) ([]*data.Comment, error)
	CountByArticle(ctx context.Context, articleID int64) (int, error)
}

// ArticleView is the display shape of an article. It is built from a
// data.Article and never written back.
type ArticleView struct {
	ID           int64
	Title        string
	HTML         template.HTML
	Summary      string
	Status       data.Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Views        int64
	Likes        int64
	Topped       bool
	Category     *data.Category
	Tags         []*data.Tag
	CommentCount int
}

// URL is the detail page path of the article.
func (v ArticleView) URL() string {
	return fmt.Sprintf("/article/%d", v.ID)
}

// Sidebar holds the navigation shown next to every page.
type Sidebar struct {
	Categories []*data.Category
	Tags       []*data.Tag
	Archive    []ArchiveYear
}

// Listing is a page of articles with its heading and sidebar.
type Listing struct {
	Heading  string
	Articles []ArticleView
	Sidebar  Sidebar
}

// ArticleDetail is a single article with its comments.
type ArticleDetail struct {
	Article  ArticleView
	Comments []*data.Comment
	Sidebar  Sidebar
}

// BlogServicer defines the read side of the blog plus the like counter.
type BlogServicer interface {
	Home(ctx context.Context) (*Listing, error)
	ByCategory(ctx context.Context, id int64) (*Listing, error)
	ByTag(ctx context.Context, id int64) (*Listing, error)
	ByMonth(ctx context.Context, year, month int) (*Listing, error)
	Article(ctx context.Context, id int64) (*ArticleDetail, error)
	Like(ctx context.Context, id int64) error
	PublishedArticles(ctx context.Context) ([]*data.Article, error)
}

// BlogOptions tunes BlogService behaviour.
type BlogOptions struct {
	// ArchiveIncludeDrafts makes the archive index and month listings
	// ignore the publication status.
	ArchiveIncludeDrafts bool
	// HideDrafts makes Article and Like report drafts as not found.
	HideDrafts bool
}

// BlogService provides the article listings and detail pages.
type BlogService struct {
	articles   ArticleRepository
	categories CategoryRepository
	tags       TagRepository
	comments   CommentRepository
	renderer   *Renderer
	opts       BlogOptions
}

// NewBlogService creates a new BlogService.
func NewBlogService(articles ArticleRepository, categories CategoryRepository, tags TagRepository, comments CommentRepository, renderer *Renderer, opts BlogOptions) *BlogService {
	return &BlogService{
		articles:   articles,
		categories: categories,
		tags:       tags,
		comments:   comments,
		renderer:   renderer,
		opts:       opts,
	}
}

// Home lists all published articles.
func (s *BlogService) Home(ctx context.Context) (*Listing, error) {
	return s.listing(ctx, "", data.Published())
}

// ByCategory lists the published articles of one category.
func (s *BlogService) ByCategory(ctx context.Context, id int64) (*Listing, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f := data.Published()
	f.CategoryID = &category.ID
	return s.listing(ctx, "Category: "+category.Name, f)
}

// ByTag lists the published articles carrying one tag.
func (s *BlogService) ByTag(ctx context.Context, id int64) (*Listing, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f := data.Published()
	f.TagID = &tag.ID
	return s.listing(ctx, "Tag: "+tag.Name, f)
}

// ByMonth lists the articles created in the given month.
func (s *BlogService) ByMonth(ctx context.Context, year, month int) (*Listing, error) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return nil, fmt.Errorf("archive %04d/%02d: %w", year, month, data.ErrNotFound)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	f := data.ArticleFilter{CreatedAfter: &from, CreatedBefore: &to}
	if !s.opts.ArchiveIncludeDrafts {
		f.Status = data.Published().Status
	}
	return s.listing(ctx, fmt.Sprintf("Archive: %s %d", from.Month(), year), f)
}

// Article returns an article with its comments and counts the view.
func (s *BlogService) Article(ctx context.Context, id int64) (*ArticleDetail, error) {
	article, err := loadArticle(ctx, s.articles, id, s.opts.HideDrafts)
	if err != nil {
		return nil, err
	}
	if err := s.articles.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	article.Views++
	return s.Detail(ctx, article)
}

// Detail builds the detail page of an already loaded article without
// touching its counters.
func (s *BlogService) Detail(ctx context.Context, article *data.Article) (*ArticleDetail, error) {
	sidebar, err := s.Sidebar(ctx)
	if err != nil {
		return nil, err
	}
	view, err := s.buildView(ctx, article, categoryIndex(sidebar.Categories))
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByArticle(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	view.CommentCount = len(comments)

	return &ArticleDetail{Article: view, Comments: comments, Sidebar: sidebar}, nil
}

// Like increments the like counter of an article.
func (s *BlogService) Like(ctx context.Context, id int64) error {
	if _, err := loadArticle(ctx, s.articles, id, s.opts.HideDrafts); err != nil {
		return err
	}
	return s.articles.IncrementLikes(ctx, id)
}

// PublishedArticles returns every published article without rendering.
func (s *BlogService) PublishedArticles(ctx context.Context) ([]*data.Article, error) {
	return s.articles.List(ctx, data.Published())
}

// Sidebar builds the category list, tag list and archive index.
// The archive is recomputed on every call.
func (s *BlogService) Sidebar(ctx context.Context) (Sidebar, error) {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return Sidebar{}, err
	}
	tags, err := s.tags.GetAll(ctx)
	if err != nil {
		return Sidebar{}, err
	}
	var status *data.Status
	if !s.opts.ArchiveIncludeDrafts {
		status = data.Published().Status
	}
	times, err := s.articles.CreatedTimes(ctx, status)
	if err != nil {
		return Sidebar{}, err
	}
	return Sidebar{Categories: categories, Tags: tags, Archive: BuildArchive(times)}, nil
}

func (s *BlogService) listing(ctx context.Context, heading string, f data.ArticleFilter) (*Listing, error) {
	articles, err := s.articles.List(ctx, f)
	if err != nil {
		return nil, err
	}
	sidebar, err := s.Sidebar(ctx)
	if err != nil {
		return nil, err
	}

	byID := categoryIndex(sidebar.Categories)
	views := make([]ArticleView, 0, len(articles))
	for _, a := range articles {
		v, err := s.buildView(ctx, a, byID)
		if err != nil {
			return nil, err
		}
		if v.CommentCount, err = s.comments.CountByArticle(ctx, a.ID); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return &Listing{Heading: heading, Articles: views, Sidebar: sidebar}, nil
}

func (s *BlogService) buildView(ctx context.Context, a *data.Article, categories map[int64]*data.Category) (ArticleView, error) {
	html, err := s.renderer.Render(ctx, a)
	if err != nil {
		return ArticleView{}, err
	}
	tags, err := s.tags.GetByArticle(ctx, a.ID)
	if err != nil {
		return ArticleView{}, err
	}
	v := ArticleView{
		ID:        a.ID,
		Title:     a.Title,
		HTML:      html,
		Summary:   a.Summary(),
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		Views:     a.Views,
		Likes:     a.Likes,
		Topped:    a.Topped,
		Tags:      tags,
	}
	if a.CategoryID != nil {
		v.Category = categories[*a.CategoryID]
	}
	return v, nil
}

// loadArticle fetches an article by id. With hideDrafts set a draft is
// reported as data.ErrNotFound.
func loadArticle(ctx context.Context, articles ArticleRepository, id int64, hideDrafts bool) (*data.Article, error) {
	article, err := articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hideDrafts && article.Status != data.StatusPublished {
		return nil, fmt.Errorf("article with id %d is not published: %w", id, data.ErrNotFound)
	}
	return article, nil
}

func categoryIndex(categories []*data.Category) map[int64]*data.Category {
	byID := make(map[int64]*data.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return byID
}
