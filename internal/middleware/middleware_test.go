package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propman-backend/internal/middleware"
)

func TestPanicRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	require.NotPanics(t, func() {
		middleware.PanicRecovery(panicking).ServeHTTP(rec, req)
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestPanicRecovery_PassesThrough(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	middleware.PanicRecovery(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestContextIdentityHelpers(t *testing.T) {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, 42)
	ctx = context.WithValue(ctx, middleware.EmailKey, "ops@example.com")

	userID, ok := middleware.GetUserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, 42, userID)

	email, ok := middleware.GetEmailFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "ops@example.com", email)
}

func TestContextIdentityHelpers_Unauthenticated(t *testing.T) {
	_, ok := middleware.GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = middleware.GetEmailFromContext(context.Background())
	assert.False(t, ok)
}
