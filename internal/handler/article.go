package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/service"
)

// ArticleHandler serves /api/articles. Reads are public; writes run behind
// RequireToken and pass the principal into the service explicitly.
type ArticleHandler struct {
	articles *service.ArticleService
	logger   *slog.Logger
}

func NewArticleHandler(articles *service.ArticleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{articles: articles, logger: logger}
}

// createArticleRequest has no author field: the author is always the caller.
// Content must be present but may be empty.
type createArticleRequest struct {
	Title      string  `json:"title" validate:"required,max=300"`
	Content    *string `json:"content" validate:"required"`
	CategoryID *string `json:"category_id"`
}

// updateArticleRequest uses pointers so absent fields can be told apart from
// empty ones. It carries no validate tags: the service checks the fields only
// after the article is found and the caller is allowed to edit it.
type updateArticleRequest struct {
	Title      *string          `json:"title"`
	Content    *string          `json:"content"`
	CategoryID model.OptionalID `json:"category_id"`
}

// HandleList returns every article.
//
// HTTP: GET /api/articles/
func (h *ArticleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

// HandleGet returns one article or 404.
//
// HTTP: GET /api/articles/{articleID}
func (h *ArticleHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.Get(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// HandleCreate stores an article authored by the caller.
//
// HTTP: POST /api/articles/
// REQUEST BODY: {"title": "...", "content": "...", "category_id": null}
func (h *ArticleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req createArticleRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	article, err := h.articles.Create(r.Context(), principal, req.Title, *req.Content, req.CategoryID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, article)
}

// HandleUpdate applies a partial update. Only the author may update.
//
// HTTP: PUT /api/articles/{articleID}
func (h *ArticleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req updateArticleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	patch := model.ArticlePatch{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	}
	article, err := h.articles.Update(r.Context(), principal, chi.URLParam(r, "articleID"), patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// HandleDelete removes an article and its comments. Only the author may delete.
//
// HTTP: DELETE /api/articles/{articleID}
// RESPONSE: 204 No Content
func (h *ArticleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	if err := h.articles.Delete(r.Context(), principal, chi.URLParam(r, "articleID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
