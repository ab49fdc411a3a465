package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/blog-api/internal/apperror"
)

func decodeBody(t *testing.T, body string, dst any) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	return decodeAndValidate(httptest.NewRecorder(), req, dst)
}

func decodeOnly(t *testing.T, body string, dst any) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	return decodeJSON(httptest.NewRecorder(), req, dst)
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		var req createArticleRequest
		require.NoError(t, decodeBody(t, `{"title":"Hello","content":"World"}`, &req))
		assert.Equal(t, "Hello", req.Title)
		require.NotNil(t, req.Content)
		assert.Equal(t, "World", *req.Content)
		assert.Nil(t, req.CategoryID)
	})

	tests := []struct {
		name      string
		body      string
		wantField string
		wantMsg   string
	}{
		{"empty body", ``, "", "Request body is required"},
		{"malformed", `{"title":`, "", "Invalid JSON body"},
		{"wrong type", `{"title": 42}`, "title", "title: expected string"},
		{"missing required", `{"content":"c"}`, "title", "title: This field is required."},
		{"too long", `{"title":"` + strings.Repeat("é", 301) + `","content":""}`, "title",
			"title: Ensure this field has no more than 300 characters."},
		{"missing content", `{"title":"t"}`, "content", "content: This field is required."},
		{"null content", `{"title":"t","content":null}`, "content", "content: This field is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req createArticleRequest
			err := decodeBody(t, tt.body, &req)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.ErrorIs(t, err, apperror.ErrValidation)
			assert.Equal(t, tt.wantField, appErr.Field)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}

	t.Run("multibyte title at the limit passes", func(t *testing.T) {
		var req createArticleRequest
		assert.NoError(t, decodeBody(t, `{"title":"`+strings.Repeat("é", 300)+`","content":""}`, &req))
	})

	t.Run("body over the cap", func(t *testing.T) {
		var req createArticleRequest
		big := `{"title":"t","content":"` + strings.Repeat("x", maxBodyBytes) + `"}`
		err := decodeBody(t, big, &req)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("empty content is allowed", func(t *testing.T) {
		var req createArticleRequest
		require.NoError(t, decodeBody(t, `{"title":"t","content":""}`, &req))
		require.NotNil(t, req.Content)
		assert.Empty(t, *req.Content)
	})

	t.Run("update fields are optional", func(t *testing.T) {
		var req updateArticleRequest
		require.NoError(t, decodeBody(t, `{}`, &req))
		assert.Nil(t, req.Title)
		assert.False(t, req.CategoryID.Set)
	})
}

func TestDecodeJSON_LeavesFieldRulesToService(t *testing.T) {
	t.Run("overlong update title decodes", func(t *testing.T) {
		var req updateArticleRequest
		require.NoError(t, decodeOnly(t, `{"title":"`+strings.Repeat("x", 301)+`"}`, &req))
		require.NotNil(t, req.Title)
		assert.Len(t, *req.Title, 301)
	})

	t.Run("empty comment text decodes", func(t *testing.T) {
		var req createCommentRequest
		require.NoError(t, decodeOnly(t, `{"text":""}`, &req))
		assert.Empty(t, req.Text)
	})

	t.Run("syntax errors are still rejected", func(t *testing.T) {
		var req updateArticleRequest
		err := decodeOnly(t, `{"title":`, &req)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("type errors are still rejected", func(t *testing.T) {
		var req updateCommentRequest
		err := decodeOnly(t, `{"text": 7}`, &req)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}
