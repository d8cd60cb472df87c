package handler

import (
	"context"
	"fmt"
	"go-blog-app/internal/logger"
	"net/http"
	"time"
)

// Pinger reports whether the database is reachable. *sqlx.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler answers liveness probes.
type HealthHandler struct {
	db  Pinger
	log logger.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, log logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

func (h *HealthHandler) healthzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.db.PingContext(ctx); err != nil {
		h.log.Error(err, "Health check failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, "database unavailable")
		return
	}
	fmt.Fprintln(w, "ok")
}
