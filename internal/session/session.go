package session

import (
	"context"
	"fmt"
	"go-blog-app/internal/config"
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

// Session keys.
const (
	flashKey          = "flash"
	commenterNameKey  = "commenter_name"
	commenterEmailKey = "commenter_email"
)

// Manager is an interface that abstracts the session management implementation.
// *scs.SessionManager satisfies it.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	PopString(ctx context.Context, key string) string
}

// New creates a session manager whose store lives in the blog database.
// The store is picked from the database driver.
func New(db *sqlx.DB, cfg config.SessionConfig, secure bool) (*scs.SessionManager, error) {
	sm := scs.New()
	switch db.DriverName() {
	case "mysql":
		sm.Store = mysqlstore.New(db.DB)
	case "sqlite3":
		sm.Store = sqlite3store.New(db.DB)
	default:
		return nil, fmt.Errorf("no session store for driver %q", db.DriverName())
	}
	sm.Lifetime = time.Duration(cfg.Lifetime) * time.Hour
	sm.Cookie.Name = "blog_session"
	sm.Cookie.Persist = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = secure
	return sm, nil
}

// Flash queues a one-shot message for the next page view.
func Flash(ctx context.Context, m Manager, msg string) {
	m.Put(ctx, flashKey, msg)
}

// PopFlash returns and clears the queued message, if any.
func PopFlash(ctx context.Context, m Manager) string {
	return m.PopString(ctx, flashKey)
}

// RememberCommenter stores the name and email of the last comment author.
func RememberCommenter(ctx context.Context, m Manager, name, email string) {
	m.Put(ctx, commenterNameKey, name)
	m.Put(ctx, commenterEmailKey, email)
}

// Commenter returns the remembered comment author.
func Commenter(ctx context.Context, m Manager) (name, email string) {
	return m.GetString(ctx, commenterNameKey), m.GetString(ctx, commenterEmailKey)
}
