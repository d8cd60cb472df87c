package handler

import (
	"bytes"
	"fmt"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/session"
	"go-blog-app/internal/view"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Recorder receives the domain events worth counting. *metrics.Metrics
// satisfies it.
type Recorder interface {
	RecordView()
	RecordLike()
	RecordComment(persisted bool)
}

// BlogHandler holds the dependencies for the public blog pages.
type BlogHandler struct {
	blog     service.BlogServicer
	comments service.CommentServicer
	view     *view.View
	sessions session.Manager
	metrics  Recorder
	log      logger.Logger
}

// NewBlogHandler creates a new BlogHandler with the given dependencies.
func NewBlogHandler(bs service.BlogServicer, cs service.CommentServicer, v *view.View, sm session.Manager, m Recorder, log logger.Logger) *BlogHandler {
	return &BlogHandler{
		blog:     bs,
		comments: cs,
		view:     v,
		sessions: sm,
		metrics:  m,
		log:      log,
	}
}

func (h *BlogHandler) indexHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	listing, err := h.blog.Home(r.Context())
	if err != nil {
		return middleware.FromService(err, "Failed to load articles")
	}
	return h.renderListing(w, r, listing)
}

func (h *BlogHandler) categoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	listing, err := h.blog.ByCategory(r.Context(), id)
	if err != nil {
		return middleware.FromService(err, "Failed to load category")
	}
	return h.renderListing(w, r, listing)
}

func (h *BlogHandler) tagHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	listing, err := h.blog.ByTag(r.Context(), id)
	if err != nil {
		return middleware.FromService(err, "Failed to load tag")
	}
	return h.renderListing(w, r, listing)
}

func (h *BlogHandler) archiveHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return middleware.NotFound(err)
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return middleware.NotFound(err)
	}
	listing, err := h.blog.ByMonth(r.Context(), year, month)
	if err != nil {
		return middleware.FromService(err, "Failed to load archive")
	}
	return h.renderListing(w, r, listing)
}

// detailHandler shows one article and counts the view.
func (h *BlogHandler) detailHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	detail, err := h.blog.Article(r.Context(), id)
	if err != nil {
		return middleware.FromService(err, "Failed to load article")
	}
	h.metrics.RecordView()

	commenter := middleware.GetCommenterInfo(r.Context())
	data := map[string]interface{}{
		"Detail": detail,
		"Form":   service.CommentForm{Name: commenter.Name, Email: commenter.Email},
		"Errors": map[string]string{},
		"Flash":  session.PopFlash(r.Context(), h.sessions),
	}
	return h.render(w, http.StatusOK, "detail.html", data)
}

// commentHandler handles the comment form. A stored comment redirects back
// to the article; otherwise the detail page is shown again with the form.
func (h *BlogHandler) commentHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Malformed form", Code: http.StatusBadRequest}
	}
	form := service.CommentForm{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
		Body:  r.PostFormValue("body"),
	}

	outcome, err := h.comments.Submit(r.Context(), id, form)
	if err != nil {
		return middleware.FromService(err, "Failed to post comment")
	}
	h.metrics.RecordComment(outcome.Persisted)

	if outcome.Persisted {
		session.RememberCommenter(r.Context(), h.sessions, outcome.Form.Name, outcome.Form.Email)
		session.Flash(r.Context(), h.sessions, "Your comment has been posted.")
		http.Redirect(w, r, articlePath(id), http.StatusSeeOther)
		return nil
	}

	status := http.StatusOK
	if len(outcome.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	errs := outcome.Errors
	if errs == nil {
		errs = map[string]string{}
	}
	data := map[string]interface{}{
		"Detail": outcome.Detail,
		"Form":   outcome.Form,
		"Errors": errs,
	}
	return h.render(w, status, "detail.html", data)
}

func (h *BlogHandler) likeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		return appErr
	}
	if err := h.blog.Like(r.Context(), id); err != nil {
		return middleware.FromService(err, "Failed to like article")
	}
	h.metrics.RecordLike()
	http.Redirect(w, r, articlePath(id), http.StatusSeeOther)
	return nil
}

func (h *BlogHandler) renderListing(w http.ResponseWriter, r *http.Request, listing *service.Listing) *middleware.AppError {
	data := map[string]interface{}{
		"Listing": listing,
		"Flash":   session.PopFlash(r.Context(), h.sessions),
	}
	return h.render(w, http.StatusOK, "index.html", data)
}

// render executes the template before writing the status so a template
// failure still turns into an error page.
func (h *BlogHandler) render(w http.ResponseWriter, status int, name string, data map[string]interface{}) *middleware.AppError {
	buf := new(bytes.Buffer)
	if err := h.view.Render(buf, name, data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Error(err, "Failed to write response")
	}
	return nil
}

// idParam parses a numeric URL parameter. The router only matches digits,
// so a failure here means the value overflowed.
func idParam(r *http.Request, name string) (int64, *middleware.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, middleware.NotFound(fmt.Errorf("invalid %s parameter: %w", name, err))
	}
	return id, nil
}

func articlePath(id int64) string {
	return fmt.Sprintf("/article/%d", id)
}
