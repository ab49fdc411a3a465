package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
)

func TestCreateComment(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	article := createTestArticle(t, db, alice, "post")

	comment := createTestComment(t, db, bob, article, "first!")
	if comment.ID == "" {
		t.Error("CreateComment() did not set ID")
	}

	got, err := db.GetComment(context.Background(), article.ID, comment.ID)
	if err != nil {
		t.Fatalf("GetComment() error = %v", err)
	}
	if got.Text != "first!" || got.AuthorUsername != "bob" || got.ArticleID != article.ID {
		t.Errorf("GetComment() = %+v", got)
	}
}

func TestCreateComment_MissingArticle(t *testing.T) {
	db := newTestDB(t)
	bob := createTestUser(t, db, "bob")

	err := db.CreateComment(context.Background(), &model.Comment{
		Text: "hi", AuthorID: bob.ID, ArticleID: "missing",
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("CreateComment() error = %v, want ErrNotFound", err)
	}
}

func TestGetComment_WrongArticle(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	a1 := createTestArticle(t, db, alice, "one")
	a2 := createTestArticle(t, db, alice, "two")
	comment := createTestComment(t, db, alice, a1, "on one")

	_, err := db.GetComment(context.Background(), a2.ID, comment.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetComment() through the wrong article error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteComment(context.Background(), a2.ID, comment.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeleteComment() through the wrong article error = %v, want ErrNotFound", err)
	}
}

func TestListComments_ScopedAndOrdered(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	a1 := createTestArticle(t, db, alice, "one")
	a2 := createTestArticle(t, db, alice, "two")

	c1 := createTestComment(t, db, alice, a1, "1")
	createTestComment(t, db, alice, a2, "other")
	c2 := createTestComment(t, db, alice, a1, "2")

	comments, err := db.ListComments(ctx, a1.ID)
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("ListComments() returned %d, want 2", len(comments))
	}
	if comments[0].ID != c1.ID || comments[1].ID != c2.ID {
		t.Errorf("ListComments() order = [%s %s], want [%s %s]",
			comments[0].ID, comments[1].ID, c1.ID, c2.ID)
	}

	none, err := db.ListComments(ctx, "missing")
	if err != nil {
		t.Fatalf("ListComments() on unknown article error = %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("ListComments() on unknown article = %v, want empty slice", none)
	}
}

func TestUpdateComment(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	article := createTestArticle(t, db, alice, "post")
	comment := createTestComment(t, db, alice, article, "typo")

	comment.Text = "fixed"
	if err := db.UpdateComment(ctx, comment); err != nil {
		t.Fatalf("UpdateComment() error = %v", err)
	}

	got, err := db.GetComment(ctx, article.ID, comment.ID)
	if err != nil {
		t.Fatalf("GetComment() error = %v", err)
	}
	if got.Text != "fixed" {
		t.Errorf("Text = %q, want %q", got.Text, "fixed")
	}

	missing := &model.Comment{ID: "missing", ArticleID: article.ID, Text: "x"}
	if err := db.UpdateComment(ctx, missing); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateComment() on missing comment error = %v, want ErrNotFound", err)
	}
}
