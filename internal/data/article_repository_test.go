//go:build integration

package data

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestArticleRepository_CreateAndGet(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewArticleRepository(db)
	tags := NewTagRepository(db)
	ctx := context.Background()

	goID, _ := tags.Save(ctx, &Tag{Name: "go"})
	sqlID, _ := tags.Save(ctx, &Tag{Name: "sql"})

	article := &Article{
		Title:    "Hello",
		Body:     "# Hello\n\nworld",
		Status:   StatusPublished,
		Abstract: strPtr("greeting"),
		Topped:   true,
	}
	if err := repo.Create(ctx, article, []int64{goID, sqlID, goID}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if article.ID == 0 {
		t.Fatal("expected non-zero id")
	}

	got, err := repo.GetByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Hello" || got.Status != StatusPublished || !got.Topped {
		t.Errorf("unexpected article: %+v", got)
	}
	if got.Abstract == nil || *got.Abstract != "greeting" {
		t.Errorf("expected abstract 'greeting', got %v", got.Abstract)
	}
	if !got.CreatedAt.Equal(article.CreatedAt) {
		t.Errorf("expected created_at %v, got %v", article.CreatedAt, got.CreatedAt)
	}

	linked, err := tags.GetByArticle(ctx, article.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(linked) != 2 {
		t.Errorf("expected 2 distinct tags, got %d", len(linked))
	}

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestArticleRepository_CreateRejectsUnknownStatus(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewArticleRepository(db)

	err := repo.Create(context.Background(), &Article{Title: "x", Body: "y", Status: "x"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestArticleRepository_UpdateKeepsCreatedAt(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	stepClock(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := NewArticleRepository(db)
	ctx := context.Background()

	article := &Article{Title: "Draft", Body: "body", Status: StatusDraft}
	if err := repo.Create(ctx, article, nil); err != nil {
		t.Fatal(err)
	}
	created := article.CreatedAt

	article.Title = "Edited"
	article.CreatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := repo.Update(ctx, article); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByID(ctx, article.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Edited" {
		t.Errorf("expected title 'Edited', got %s", got.Title)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at changed: want %v got %v", created, got.CreatedAt)
	}
	if !got.UpdatedAt.After(created) {
		t.Errorf("expected last_modified_at after created_at, got %v", got.UpdatedAt)
	}
}

func TestArticleRepository_ListFilters(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	stepClock(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := NewArticleRepository(db)
	categories := NewCategoryRepository(db)
	tags := NewTagRepository(db)
	ctx := context.Background()

	catID, _ := categories.Save(ctx, &Category{Name: "Go"})
	tagID, _ := tags.Save(ctx, &Tag{Name: "web"})

	first := &Article{Title: "first", Body: "b", Status: StatusPublished, CategoryID: &catID}
	draft := &Article{Title: "draft", Body: "b", Status: StatusDraft, CategoryID: &catID}
	second := &Article{Title: "second", Body: "b", Status: StatusPublished}
	for _, a := range []*Article{first, draft, second} {
		var tagIDs []int64
		if a != second {
			tagIDs = []int64{tagID}
		}
		if err := repo.Create(ctx, a, tagIDs); err != nil {
			t.Fatal(err)
		}
	}

	// Editing the first article moves it to the top of every listing.
	if err := repo.Update(ctx, first); err != nil {
		t.Fatal(err)
	}

	published, err := repo.List(ctx, Published())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("expected 2 published articles, got %d", len(published))
	}
	if published[0].Title != "first" || published[1].Title != "second" {
		t.Errorf("expected order [first second], got [%s %s]", published[0].Title, published[1].Title)
	}

	byCategory := Published()
	byCategory.CategoryID = &catID
	got, err := repo.List(ctx, byCategory)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "first" {
		t.Errorf("expected only 'first' in category, got %d articles", len(got))
	}

	byTag := Published()
	byTag.TagID = &tagID
	got, err = repo.List(ctx, byTag)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "first" {
		t.Errorf("expected only 'first' for tag, got %d articles", len(got))
	}

	all, err := repo.List(ctx, ArticleFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 articles without filter, got %d", len(all))
	}
}

func TestArticleRepository_ListByCreatedRange(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewArticleRepository(db)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		d := d
		original := now
		now = func() time.Time { return d }
		err := repo.Create(ctx, &Article{Title: "a", Body: "b", Status: StatusPublished}, nil)
		now = original
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	got, err := repo.List(ctx, ArticleFilter{CreatedAfter: &from, CreatedBefore: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 articles in January 2024, got %d", len(got))
	}

	times, err := repo.CreatedTimes(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != 4 {
		t.Errorf("expected 4 creation times, got %d", len(times))
	}
}

func TestArticleRepository_Counters(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewArticleRepository(db)
	ctx := context.Background()

	article := &Article{Title: "a", Body: "b", Status: StatusPublished}
	if err := repo.Create(ctx, article, nil); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.IncrementViews(ctx, article.ID); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.IncrementLikes(ctx, article.ID); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByID(ctx, article.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Views != 3 || got.Likes != 1 {
		t.Errorf("expected views=3 likes=1, got views=%d likes=%d", got.Views, got.Likes)
	}
	if !got.UpdatedAt.Equal(article.UpdatedAt) {
		t.Error("expected counters to leave last_modified_at untouched")
	}

	if err := repo.IncrementViews(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestArticleRepository_DeleteCascadesComments(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewArticleRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	article := &Article{Title: "a", Body: "b", Status: StatusPublished}
	if err := repo.Create(ctx, article, nil); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ann", "bob"} {
		c := &Comment{ArticleID: article.ID, UserName: name, UserEmail: name + "@example.com", Body: "hi"}
		if err := comments.Create(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	if err := repo.Delete(ctx, article.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	n, err := comments.CountByArticle(ctx, article.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected comments to be deleted with the article, %d left", n)
	}
	if err := repo.Delete(ctx, article.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
