package data

import (
	"errors"
	"time"
	"unicode/utf8"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// SummaryLength is how many characters of the body stand in for a missing abstract.
const SummaryLength = 54

// Status is the publication state of an article.
type Status string

const (
	StatusDraft     Status = "d"
	StatusPublished Status = "p"
)

// Valid reports whether s is one of the two known statuses.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusPublished:
		return "Published"
	}
	return string(s)
}

// ParseStatus accepts either the stored code or the display name.
func ParseStatus(v string) (Status, error) {
	switch v {
	case "d", "draft", "Draft":
		return StatusDraft, nil
	case "p", "published", "Published":
		return StatusPublished, nil
	}
	return "", errors.New("status must be draft or published")
}

// Article is a single blog post as stored in the database.
type Article struct {
	ID         int64     `db:"id"`
	Title      string    `db:"title"`
	Body       string    `db:"body"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"last_modified_at"`
	Status     Status    `db:"status"`
	Abstract   *string   `db:"abstract"`
	Views      int64     `db:"views"`
	Likes      int64     `db:"likes"`
	Topped     bool      `db:"topped"`
	CategoryID *int64    `db:"category_id"`
}

// Summary returns the abstract, or the first SummaryLength characters of the
// body when no abstract was given.
func (a *Article) Summary() string {
	if a.Abstract != nil && *a.Abstract != "" {
		return *a.Abstract
	}
	if utf8.RuneCountInString(a.Body) <= SummaryLength {
		return a.Body
	}
	return string([]rune(a.Body)[:SummaryLength])
}

// Category groups articles. An article belongs to at most one category.
type Category struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"last_modified_at"`
}

// Tag labels articles; the relation is many-to-many.
type Tag struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"last_modified_at"`
}

// Comment is a reader comment attached to an article.
type Comment struct {
	ID        int64     `db:"id"`
	ArticleID int64     `db:"article_id"`
	UserName  string    `db:"user_name"`
	UserEmail string    `db:"user_email"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

// ArticleFilter narrows an article listing. Nil fields are not applied.
type ArticleFilter struct {
	Status        *Status
	CategoryID    *int64
	TagID         *int64
	CreatedAfter  *time.Time // inclusive
	CreatedBefore *time.Time // exclusive
}

// Published returns a filter matching only published articles.
func Published() ArticleFilter {
	s := StatusPublished
	return ArticleFilter{Status: &s}
}

// now is the clock used for all stored timestamps.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
