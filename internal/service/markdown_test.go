//go:build unit

package service

import (
	"context"
	"go-blog-app/internal/cache"
	"go-blog-app/internal/config"
	"go-blog-app/internal/data"
	"strings"
	"testing"
	"time"
)

func TestRenderer_RenderString(t *testing.T) {
	r := NewRenderer(nil, testLogger())

	t.Run("fenced code block", func(t *testing.T) {
		out, err := r.RenderString("```go\nfmt.Println(\"hi\")\n```\n")
		if err != nil {
			t.Fatal(err)
		}
		html := string(out)
		if !strings.Contains(html, "<pre><code class=\"language-go\">") {
			t.Errorf("expected fenced code with language class, got %s", html)
		}
	})

	t.Run("strips scripts", func(t *testing.T) {
		out, err := r.RenderString("hello <script>alert(1)</script> **world**")
		if err != nil {
			t.Fatal(err)
		}
		html := string(out)
		if strings.Contains(html, "<script>") {
			t.Errorf("expected script to be stripped, got %s", html)
		}
		if !strings.Contains(html, "<strong>world</strong>") {
			t.Errorf("expected emphasis to survive, got %s", html)
		}
	})

	t.Run("gfm tables", func(t *testing.T) {
		out, err := r.RenderString("| a | b |\n|---|---|\n| 1 | 2 |\n")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(out), "<table>") {
			t.Errorf("expected a table, got %s", out)
		}
	})
}

// mapCache is an in-memory RenderCache.
type mapCache struct {
	items map[string][]byte
	sets  int
}

func (m *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	return m.items[key], nil
}

func (m *mapCache) Set(ctx context.Context, key string, value []byte) error {
	m.sets++
	m.items[key] = value
	return nil
}

func TestRenderer_RenderUsesCache(t *testing.T) {
	c := &mapCache{items: map[string][]byte{}}
	r := NewRenderer(c, testLogger())
	ctx := context.Background()
	article := &data.Article{ID: 1, Body: "# Title", UpdatedAt: time.Unix(100, 0)}

	first, err := r.Render(ctx, article)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(ctx, article)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("expected identical output, got %q and %q", first, second)
	}
	if c.sets != 1 {
		t.Errorf("expected one cache store, got %d", c.sets)
	}

	article.Body = "# Changed"
	article.UpdatedAt = time.Unix(200, 0)
	third, err := r.Render(ctx, article)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(third), "Changed") {
		t.Errorf("expected re-render after modification, got %s", third)
	}
}

func TestRenderer_WithSQLiteCache(t *testing.T) {
	c, err := cache.New(config.CacheConfig{FilePath: "file::memory:", TTL: time.Hour})
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	defer c.Close()

	r := NewRenderer(c, testLogger())
	ctx := context.Background()
	article := &data.Article{ID: 3, Body: "*hi*", UpdatedAt: time.Unix(300, 0)}

	if _, err := r.Render(ctx, article); err != nil {
		t.Fatal(err)
	}
	stored, err := c.Get(ctx, "article:3:300000000000")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(stored), "<em>hi</em>") {
		t.Errorf("expected rendered HTML in the cache, got %q", stored)
	}
}
