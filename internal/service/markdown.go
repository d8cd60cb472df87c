package service

import (
	"bytes"
	"context"
	"fmt"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// RenderCache stores rendered article bodies. *cache.Cache satisfies it.
type RenderCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Renderer converts Markdown article bodies to sanitized HTML.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	cache     RenderCache
	log       logger.Logger
}

// NewRenderer creates a Renderer. c may be nil to disable caching.
func NewRenderer(c RenderCache, log logger.Logger) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	// Authors may embed raw HTML; everything goes through the UGC policy
	// afterwards. Fenced code keeps its language class for highlighters.
	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+-]+$`)).OnElements("code")

	return &Renderer{md: md, sanitizer: sanitizer, cache: c, log: log}
}

// RenderString converts Markdown source to sanitized HTML.
func (r *Renderer) RenderString(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(r.sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// Render returns the HTML for an article body, using the cache when one is
// configured. Entries are keyed by the article's last modification so edits
// never serve stale HTML.
func (r *Renderer) Render(ctx context.Context, a *data.Article) (template.HTML, error) {
	key := fmt.Sprintf("article:%d:%d", a.ID, a.UpdatedAt.UnixNano())
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, key)
		if err != nil {
			r.log.Error(err, "Render cache lookup failed")
		} else if cached != nil {
			return template.HTML(cached), nil
		}
	}

	out, err := r.RenderString(a.Body)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, []byte(out)); err != nil {
			r.log.Error(err, "Render cache store failed")
		}
	}
	return out, nil
}
