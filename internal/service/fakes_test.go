package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeStore is an in-memory implementation of every repository interface.
// Cascades are applied by hand so service tests can observe them.
type fakeStore struct {
	users      map[string]*model.User
	tokens     map[string]*model.AuthToken
	articles   map[string]*model.Article
	comments   map[string]*model.Comment
	categories map[string]*model.Category
	seq        int

	// set to a non-nil error to simulate a database failure
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[string]*model.User),
		tokens:     make(map[string]*model.AuthToken),
		articles:   make(map[string]*model.Article),
		comments:   make(map[string]*model.Comment),
		categories: make(map[string]*model.Category),
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%03d", prefix, f.seq)
}

// stamp returns strictly increasing times so ordering is deterministic.
func (f *fakeStore) stamp() time.Time {
	return time.Date(2024, 1, 1, 0, 0, f.seq, 0, time.UTC)
}

// --- users ---

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperror.Conflict("user", user.Username)
		}
	}
	user.ID = f.nextID("user")
	user.CreatedAt = f.stamp()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeStore) userByID(id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeStore) UsernameExists(_ context.Context, username string) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.users, id)
	for k, t := range f.tokens {
		if t.UserID == id {
			delete(f.tokens, k)
		}
	}
	for aid, a := range f.articles {
		if a.AuthorID == id {
			f.deleteArticle(aid)
		}
	}
	for cid, c := range f.comments {
		if c.AuthorID == id {
			delete(f.comments, cid)
		}
	}
	return nil
}

// --- tokens ---

func (f *fakeStore) CreateToken(_ context.Context, token *model.AuthToken) error {
	if _, ok := f.tokens[token.Key]; ok {
		return apperror.Conflict("auth token", "key")
	}
	copied := *token
	f.tokens[token.Key] = &copied
	return nil
}

func (f *fakeStore) GetUserByToken(_ context.Context, key string) (*model.User, error) {
	t, ok := f.tokens[key]
	if !ok {
		return nil, apperror.NotFound("auth token", "key")
	}
	return f.userByID(t.UserID)
}

func (f *fakeStore) DeleteToken(_ context.Context, key string) error {
	delete(f.tokens, key)
	return nil
}

func (f *fakeStore) DeleteTokensForUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for k, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, k)
			n++
		}
	}
	return n, nil
}

// --- articles ---

func (f *fakeStore) CreateArticle(_ context.Context, article *model.Article) error {
	if f.failWith != nil {
		return f.failWith
	}
	article.ID = f.nextID("article")
	article.CreatedAt = f.stamp()
	article.UpdatedAt = article.CreatedAt
	copied := *article
	f.articles[article.ID] = &copied
	return nil
}

func (f *fakeStore) GetArticle(_ context.Context, id string) (*model.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return nil, apperror.NotFound("article", id)
	}
	copied := *a
	if u, ok := f.users[a.AuthorID]; ok {
		copied.AuthorUsername = u.Username
	}
	return &copied, nil
}

func (f *fakeStore) ListArticles(_ context.Context) ([]model.Article, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]model.Article, 0, len(f.articles))
	for _, a := range f.articles {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateArticle(_ context.Context, article *model.Article) error {
	if _, ok := f.articles[article.ID]; !ok {
		return apperror.NotFound("article", article.ID)
	}
	f.seq++
	article.UpdatedAt = f.stamp()
	copied := *article
	f.articles[article.ID] = &copied
	return nil
}

func (f *fakeStore) DeleteArticle(_ context.Context, id string) error {
	if _, ok := f.articles[id]; !ok {
		return apperror.NotFound("article", id)
	}
	f.deleteArticle(id)
	return nil
}

func (f *fakeStore) deleteArticle(id string) {
	delete(f.articles, id)
	for cid, c := range f.comments {
		if c.ArticleID == id {
			delete(f.comments, cid)
		}
	}
}

func (f *fakeStore) ArticleExists(_ context.Context, id string) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	_, ok := f.articles[id]
	return ok, nil
}

// --- comments ---

func (f *fakeStore) CreateComment(_ context.Context, comment *model.Comment) error {
	if _, ok := f.articles[comment.ArticleID]; !ok {
		return apperror.NotFound("article", comment.ArticleID)
	}
	comment.ID = f.nextID("comment")
	comment.CreatedAt = f.stamp()
	comment.UpdatedAt = comment.CreatedAt
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeStore) GetComment(_ context.Context, articleID, commentID string) (*model.Comment, error) {
	c, ok := f.comments[commentID]
	if !ok || c.ArticleID != articleID {
		return nil, apperror.NotFound("comment", commentID)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeStore) ListComments(_ context.Context, articleID string) ([]model.Comment, error) {
	out := make([]model.Comment, 0)
	for _, c := range f.comments {
		if c.ArticleID == articleID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateComment(_ context.Context, comment *model.Comment) error {
	existing, ok := f.comments[comment.ID]
	if !ok || existing.ArticleID != comment.ArticleID {
		return apperror.NotFound("comment", comment.ID)
	}
	f.seq++
	comment.UpdatedAt = f.stamp()
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeStore) DeleteComment(_ context.Context, articleID, commentID string) error {
	c, ok := f.comments[commentID]
	if !ok || c.ArticleID != articleID {
		return apperror.NotFound("comment", commentID)
	}
	delete(f.comments, commentID)
	return nil
}

// --- categories ---

func (f *fakeStore) CreateCategory(_ context.Context, category *model.Category) error {
	if category.ID == "" {
		category.ID = f.nextID("category")
	}
	copied := *category
	f.categories[category.ID] = &copied
	return nil
}

func (f *fakeStore) GetCategory(_ context.Context, id string) (*model.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, apperror.NotFound("category", id)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeStore) ListCategories(_ context.Context) ([]model.Category, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]model.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) DeleteCategory(_ context.Context, id string) error {
	if _, ok := f.categories[id]; !ok {
		return apperror.NotFound("category", id)
	}
	delete(f.categories, id)
	for _, a := range f.articles {
		if a.CategoryID != nil && *a.CategoryID == id {
			a.CategoryID = nil
		}
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

// seedUser puts a user straight into the fake store.
func seedUser(f *fakeStore, username string) *model.User {
	u := &model.User{Username: username, PasswordHash: "unused"}
	if err := f.CreateUser(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}
