package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Comment handling modes. See BlogConfig.CommentMode.
const (
	CommentModeStrict = "strict"
	CommentModeLegacy = "legacy"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
	Blog    BlogConfig    `mapstructure:"blog"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port    string    `mapstructure:"port"`
	BaseURL string    `mapstructure:"base_url"`
	TLS     TLSConfig `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// DBConfig holds database-specific configuration.
type DBConfig struct {
	Driver     string `mapstructure:"driver"` // "mysql" or "sqlite3"
	DSN        string `mapstructure:"dsn"`
	Migrations string `mapstructure:"migrations"`
}

// CacheConfig holds configuration for the rendered-content cache.
type CacheConfig struct {
	FilePath string        `mapstructure:"file_path"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// SessionConfig holds session cookie configuration.
type SessionConfig struct {
	Lifetime int `mapstructure:"lifetime"` // hours
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// BlogConfig holds behaviour switches for the public blog pages.
type BlogConfig struct {
	// CommentMode selects how comment submissions are branched on validation.
	// "legacy" (the default) persists invalid comments and discards valid
	// ones; "strict" persists valid comments only.
	CommentMode string `mapstructure:"comment_mode"`
	// ArchiveIncludeDrafts makes the archive index and archive listings
	// consider draft articles too. On by default.
	ArchiveIncludeDrafts bool `mapstructure:"archive_include_drafts"`
	// HideDrafts answers 404 for draft articles on the detail, comment and
	// like routes. Off by default.
	HideDrafts bool `mapstructure:"hide_drafts"`
}

// MigrationsPath returns the migrations directory for the configured driver.
func (c DBConfig) MigrationsPath() string {
	return strings.TrimRight(c.Migrations, "/") + "/" + c.Driver
}

// Validate checks the values viper cannot check on its own.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "mysql", "sqlite3":
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	switch c.Blog.CommentMode {
	case CommentModeStrict, CommentModeLegacy:
	default:
		return fmt.Errorf("unsupported blog.comment_mode %q", c.Blog.CommentMode)
	}
	return nil
}

// LoadConfig reads configuration from the default locations and environment variables.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("")
}

// LoadConfigFrom is LoadConfig with an explicit config file. An empty file
// searches the default locations.
func LoadConfigFrom(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "file:blog.db?_foreign_keys=on")
	v.SetDefault("db.migrations", "migrations")
	v.SetDefault("cache.file_path", "cache.db")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("session.lifetime", 24*30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("blog.comment_mode", CommentModeLegacy)
	v.SetDefault("blog.archive_include_drafts", true)
	v.SetDefault("blog.hide_drafts", false)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/go-blog-app/")
		v.AddConfigPath("$HOME/.go-blog-app")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found; proceed with defaults and env vars
	}

	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
