//go:build unit

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.DB.Driver != "sqlite3" {
		t.Errorf("expected sqlite3 driver, got %s", cfg.DB.Driver)
	}
	if cfg.DB.MigrationsPath() != "migrations/sqlite3" {
		t.Errorf("unexpected migrations path %s", cfg.DB.MigrationsPath())
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("expected cache ttl 24h, got %s", cfg.Cache.TTL)
	}
	if cfg.Blog.CommentMode != CommentModeLegacy {
		t.Errorf("expected legacy comment mode, got %s", cfg.Blog.CommentMode)
	}
	if !cfg.Blog.ArchiveIncludeDrafts {
		t.Error("expected drafts to be included in the archive by default")
	}
	if cfg.Blog.HideDrafts {
		t.Error("expected drafts to stay reachable by default")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("BLOG_SERVER_PORT", "9090")
	t.Setenv("BLOG_BLOG_COMMENT_MODE", "strict")
	t.Setenv("BLOG_BLOG_ARCHIVE_INCLUDE_DRAFTS", "false")
	t.Setenv("BLOG_BLOG_HIDE_DRAFTS", "true")
	t.Setenv("BLOG_CACHE_TTL", "10m")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Blog.CommentMode != CommentModeStrict {
		t.Errorf("expected strict comment mode, got %s", cfg.Blog.CommentMode)
	}
	if cfg.Blog.ArchiveIncludeDrafts || !cfg.Blog.HideDrafts {
		t.Errorf("expected draft switches from the environment, got %+v", cfg.Blog)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("expected cache ttl 10m, got %s", cfg.Cache.TTL)
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite strict", Config{DB: DBConfig{Driver: "sqlite3"}, Blog: BlogConfig{CommentMode: "strict"}}, false},
		{"mysql legacy", Config{DB: DBConfig{Driver: "mysql"}, Blog: BlogConfig{CommentMode: "legacy"}}, false},
		{"unknown driver", Config{DB: DBConfig{Driver: "postgres"}, Blog: BlogConfig{CommentMode: "strict"}}, true},
		{"unknown mode", Config{DB: DBConfig{Driver: "mysql"}, Blog: BlogConfig{CommentMode: "lenient"}}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestLoadConfigFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.yml")
	content := "server:\n  base_url: https://blog.example.com\ndb:\n  driver: mysql\n  dsn: user:pass@tcp(db:3306)/blog?parseTime=true\nblog:\n  archive_include_drafts: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom failed: %v", err)
	}
	if cfg.Server.BaseURL != "https://blog.example.com" {
		t.Errorf("unexpected base url %s", cfg.Server.BaseURL)
	}
	if cfg.DB.MigrationsPath() != "migrations/mysql" {
		t.Errorf("unexpected migrations path %s", cfg.DB.MigrationsPath())
	}
	if !cfg.Blog.ArchiveIncludeDrafts {
		t.Error("expected archive_include_drafts from the file")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port to survive, got %s", cfg.Server.Port)
	}

	if _, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}
