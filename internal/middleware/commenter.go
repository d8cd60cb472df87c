package middleware

import (
	"context"
	"go-blog-app/internal/session"
	"net/http"
)

type contextKey string

const commenterContextKey = contextKey("commenter")

// CommenterInfo is the comment author remembered in the session.
type CommenterInfo struct {
	Name  string
	Email string
}

// Commenter loads the remembered comment author from the session into the
// request context. It must run inside the session LoadAndSave middleware.
func Commenter(sm session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, email := session.Commenter(r.Context(), sm)
			ctx := SetCommenterInfo(r.Context(), &CommenterInfo{Name: name, Email: email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCommenterInfo retrieves the comment author from the request context.
// An empty author is returned when none is known.
func GetCommenterInfo(ctx context.Context) *CommenterInfo {
	if info, ok := ctx.Value(commenterContextKey).(*CommenterInfo); ok {
		return info
	}
	return &CommenterInfo{}
}

// SetCommenterInfo adds the comment author to the request context.
func SetCommenterInfo(ctx context.Context, info *CommenterInfo) context.Context {
	return context.WithValue(ctx, commenterContextKey, info)
}
