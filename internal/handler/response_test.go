package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/blog-api/internal/apperror"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unauthenticated",
			err:        apperror.Unauthenticated("Unauthorized"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"detail":"Unauthorized"}`,
		},
		{
			name:       "forbidden",
			err:        apperror.Forbidden("You can only edit your own articles"),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"detail":"You can only edit your own articles"}`,
		},
		{
			name:       "not found wrapped",
			err:        fmt.Errorf("loading: %w", apperror.NotFound("article", "abc")),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "validation",
			err:        apperror.ValidationFailed("title", "title: This field is required."),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"title: This field is required."}`,
		},
		{
			name:       "conflict is a bad request",
			err:        apperror.AlreadyExists("Username already exists"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"Username already exists"}`,
		},
		{
			name:       "raw error hides details",
			err:        errors.New("sqlstore: disk I/O error"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			rec := httptest.NewRecorder()
			writeError(rec, logger, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Contains(t, logs.String(), "disk I/O error")
				assert.NotContains(t, rec.Body.String(), "disk I/O error")
			} else {
				assert.Empty(t, logs.String())
			}
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			} else {
				assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
