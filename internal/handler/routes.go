package handler

import (
	"fmt"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/metrics"
	appmw "go-blog-app/internal/middleware"
	"go-blog-app/internal/session"
	"go-blog-app/web"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures a new chi router.
func NewRouter(
	blogHandler *BlogHandler,
	seoHandler *SeoHandler,
	healthHandler *HealthHandler,
	errorMiddleware func(appmw.AppHandler) http.Handler,
	sessionManager session.Manager,
	m *metrics.Metrics,
	log logger.Logger,
) (*chi.Mux, error) {
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.NotFound(errorMiddleware(func(w http.ResponseWriter, r *http.Request) *appmw.AppError {
		return appmw.NotFound(fmt.Errorf("no route for %s", r.URL.Path))
	}).ServeHTTP)

	// Infrastructure routes
	r.Get("/healthz", healthHandler.healthzHandler)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/robots.txt", seoHandler.robotsHandler)
	r.Get("/sitemap.xml", seoHandler.sitemapHandler)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(appmw.Commenter(sessionManager))

		r.Method(http.MethodGet, "/", errorMiddleware(blogHandler.indexHandler))
		r.Method(http.MethodGet, "/article/{id:[0-9]+}", errorMiddleware(blogHandler.detailHandler))
		r.Method(http.MethodPost, "/article/{id:[0-9]+}/comment/", errorMiddleware(blogHandler.commentHandler))
		r.Method(http.MethodPost, "/article/{id:[0-9]+}/like", errorMiddleware(blogHandler.likeHandler))
		r.Method(http.MethodGet, "/category/{id:[0-9]+}", errorMiddleware(blogHandler.categoryHandler))
		r.Method(http.MethodGet, "/tag/{id:[0-9]+}", errorMiddleware(blogHandler.tagHandler))
		r.Method(http.MethodGet, "/archive/{year:[0-9]+}/{month:[0-9]+}", errorMiddleware(blogHandler.archiveHandler))
	})

	return r, nil
}
