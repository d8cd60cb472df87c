package middleware

import (
	"errors"
	"fmt"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/view"
	"net/http"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// NotFound builds a 404 AppError.
func NotFound(err error) *AppError {
	return &AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
}

// FromService maps a service error to an AppError. data.ErrNotFound becomes
// a 404, everything else a 500 carrying msg.
func FromService(err error, msg string) *AppError {
	if errors.Is(err, data.ErrNotFound) {
		return NotFound(err)
	}
	return &AppError{Error: err, Message: msg, Code: http.StatusInternalServerError}
}

// Error is a middleware that converts handler errors into user-friendly error pages.
func Error(log logger.Logger, v *view.View) func(AppHandler) http.Handler {
	render := func(w http.ResponseWriter, code int, text string) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(code)
		data := map[string]interface{}{
			"StatusCode": code,
			"StatusText": text,
		}
		if err := v.Render(w, "error.html", data); err != nil {
			log.Error(err, "Failed to render error page")
		}
	}

	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					render(w, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			appErr := next(w, r)
			if appErr == nil {
				return
			}
			if appErr.Code >= http.StatusInternalServerError {
				log.Error(appErr.Error, appErr.Message)
			} else {
				log.Debug(fmt.Sprintf("%s %s: %s", r.Method, r.URL.Path, appErr.Message))
			}
			render(w, appErr.Code, appErr.Message)
		})
	}
}
