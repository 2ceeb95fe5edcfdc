package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticValidator map[string]uuid.UUID

func (v staticValidator) ValidateToken(token string) (uuid.UUID, error) {
	id, ok := v[token]
	if !ok {
		return uuid.Nil, errors.New("invalid token")
	}
	return id, nil
}

func protected(t *testing.T, v TokenValidator) (http.Handler, *uuid.UUID) {
	t.Helper()
	var seen uuid.UUID
	h := RequireAuth(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, &seen
}

func TestRequireAuth_ValidToken(t *testing.T) {
	userID := uuid.New()
	h, seen := protected(t, staticValidator{"good": userID})

	for _, header := range []string{"Bearer good", "bearer good", "BEARER  good"} {
		req := httptest.NewRequest(http.MethodGet, "/proposals", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code, header)
		assert.Equal(t, userID, *seen)
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	h, _ := protected(t, staticValidator{"good": uuid.New(), "nil": uuid.Nil})

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic good"},
		{"no token", "Bearer"},
		{"extra parts", "Bearer good extra"},
		{"unknown token", "Bearer bad"},
		{"nil account", "Bearer nil"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/proposals", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
			assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
		})
	}
}

func TestUserID_Missing(t *testing.T) {
	_, ok := UserID(context.Background())
	assert.False(t, ok)
}
