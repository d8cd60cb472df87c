package service

import (
	"context"
	"errors"
	"fmt"
	"go-blog-app/internal/config"
	"go-blog-app/internal/data"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CommentForm is a submitted comment before validation.
type CommentForm struct {
	Name  string `form:"name" validate:"required,max=100"`
	Email string `form:"email" validate:"required,email,max=255"`
	Body  string `form:"body" validate:"required"`
}

// CommentOutcome describes what happened to a submission.
type CommentOutcome struct {
	// Persisted is true when the comment was stored; the caller redirects.
	Persisted bool
	Comment   *data.Comment
	// Form and Errors are set when the detail page is shown again.
	Form   CommentForm
	Errors map[string]string
	Detail *ArticleDetail
}

// DetailBuilder renders the detail page of a loaded article.
type DetailBuilder interface {
	Detail(ctx context.Context, article *data.Article) (*ArticleDetail, error)
}

// CommentServicer defines the comment submission operation.
type CommentServicer interface {
	Submit(ctx context.Context, articleID int64, form CommentForm) (*CommentOutcome, error)
}

// CommentOptions tunes CommentService behaviour.
type CommentOptions struct {
	// Mode is config.CommentModeLegacy or config.CommentModeStrict.
	Mode string
	// HideDrafts rejects comments on draft articles as not found.
	HideDrafts bool
}

// CommentService validates and stores reader comments.
type CommentService struct {
	articles ArticleRepository
	comments CommentRepository
	pages    DetailBuilder
	validate *validator.Validate
	opts     CommentOptions
}

// NewCommentService creates a new CommentService.
func NewCommentService(articles ArticleRepository, comments CommentRepository, pages DetailBuilder, opts CommentOptions) *CommentService {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return &CommentService{
		articles: articles,
		comments: comments,
		pages:    pages,
		validate: v,
		opts:     opts,
	}
}

// Submit handles a comment for the given article. A missing article, or a
// draft when HideDrafts is set, is data.ErrNotFound and nothing is stored.
//
// Legacy mode stores invalid submissions and only redisplays the page for
// valid ones. In strict mode valid comments are stored and invalid ones are
// returned with their errors.
func (s *CommentService) Submit(ctx context.Context, articleID int64, form CommentForm) (*CommentOutcome, error) {
	article, err := loadArticle(ctx, s.articles, articleID, s.opts.HideDrafts)
	if err != nil {
		return nil, err
	}

	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Body = strings.TrimSpace(form.Body)
	fieldErrors, err := s.check(form)
	if err != nil {
		return nil, err
	}
	valid := len(fieldErrors) == 0

	persist := valid
	if s.opts.Mode == config.CommentModeLegacy {
		persist = !valid
	}

	if persist {
		comment := &data.Comment{
			ArticleID: article.ID,
			UserName:  form.Name,
			UserEmail: form.Email,
			Body:      form.Body,
		}
		if err := s.comments.Create(ctx, comment); err != nil {
			return nil, err
		}
		return &CommentOutcome{Persisted: true, Comment: comment, Form: form}, nil
	}

	detail, err := s.pages.Detail(ctx, article)
	if err != nil {
		return nil, err
	}
	return &CommentOutcome{Form: form, Errors: fieldErrors, Detail: detail}, nil
}

func (s *CommentService) check(form CommentForm) (map[string]string, error) {
	err := s.validate.Struct(form)
	if err == nil {
		return map[string]string{}, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("failed to validate comment: %w", err)
	}
	fieldErrors := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fieldErrors[fe.Field()] = fieldMessage(fe)
	}
	return fieldErrors, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	}
	return "Invalid value."
}
