package main

import (
	"context"
	"errors"
	"fmt"
	"go-blog-app/internal/cache"
	"go-blog-app/internal/config"
	"go-blog-app/internal/data"
	"go-blog-app/internal/handler"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/metrics"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/session"
	"go-blog-app/internal/view"
	"go-blog-app/web"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log)

	// --- Database Initialization and Migration ---
	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(db, cfg.DB.MigrationsPath()); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	// --- Session Management Setup ---
	sessionManager, err := session.New(db, cfg.Session, cfg.Server.TLS.Enabled)
	if err != nil {
		log.Fatal(err, "Failed to initialize sessions")
	}

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}

	// --- Cache Initialization ---
	log.Info("Initializing render cache...")
	renderCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer renderCache.Close()
	if purged, err := renderCache.Purge(context.Background()); err != nil {
		log.Warn(fmt.Sprintf("Failed to purge expired cache entries: %v", err))
	} else if purged > 0 {
		log.Info(fmt.Sprintf("Purged %d expired cache entries.", purged))
	}

	// --- Dependency Injection and Handler Initialization ---
	articleRepository := data.NewArticleRepository(db)
	categoryRepository := data.NewCategoryRepository(db)
	tagRepository := data.NewTagRepository(db)
	commentRepository := data.NewCommentRepository(db)

	renderer := service.NewRenderer(renderCache, log)
	blogService := service.NewBlogService(articleRepository, categoryRepository, tagRepository, commentRepository, renderer,
		service.BlogOptions{ArchiveIncludeDrafts: cfg.Blog.ArchiveIncludeDrafts, HideDrafts: cfg.Blog.HideDrafts})
	commentService := service.NewCommentService(articleRepository, commentRepository, blogService,
		service.CommentOptions{Mode: cfg.Blog.CommentMode, HideDrafts: cfg.Blog.HideDrafts})

	appMetrics := metrics.New()
	blogHandler := handler.NewBlogHandler(blogService, commentService, viewService, sessionManager, appMetrics, log)
	seoHandler := handler.NewSeoHandler(blogService, cfg.Server.BaseURL)
	healthHandler := handler.NewHealthHandler(db, log)
	errorMiddleware := middleware.Error(log, viewService)

	// --- Router Setup ---
	router, err := handler.NewRouter(blogHandler, seoHandler, healthHandler, errorMiddleware, sessionManager, appMetrics, log)
	if err != nil {
		log.Fatal(err, "Failed to build router")
	}

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
