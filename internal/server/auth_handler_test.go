package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-pages/internal/types"
)

func TestAuth_RegisterThenLogin(t *testing.T) {
	store := newMemStore()
	s := newTestServer(t, store, testConfig())

	w := do(s, http.MethodPost, "/auth/register",
		`{"name":"Ana","email":"ana@acme.com","password":"correct-horse","company_name":"Acme"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var registered types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	require.NotNil(t, registered.User)
	assert.Equal(t, "Acme", registered.User.CompanyName)
	assert.NotContains(t, w.Body.String(), "password")

	id, err := s.jwtService.ValidateToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, id)

	w = do(s, http.MethodPost, "/auth/login", `{"email":"ana@acme.com","password":"correct-horse"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var loggedIn types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loggedIn))
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestAuth_RegisterErrors(t *testing.T) {
	store := newMemStore()
	store.addUser(t, "taken@acme.com")
	s := newTestServer(t, store, testConfig())

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"duplicate email", `{"name":"Ana","email":"taken@acme.com","password":"correct-horse"}`, http.StatusConflict},
		{"short password", `{"name":"Ana","email":"ana@acme.com","password":"short"}`, http.StatusBadRequest},
		{"bad email", `{"name":"Ana","email":"ana","password":"correct-horse"}`, http.StatusBadRequest},
		{"malformed", `{"name":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, http.MethodPost, "/auth/register", tt.body, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestAuth_LoginFailuresLookAlike(t *testing.T) {
	store := newMemStore()
	store.addUser(t, "ana@acme.com")
	s := newTestServer(t, store, testConfig())

	wrongPassword := do(s, http.MethodPost, "/auth/login", `{"email":"ana@acme.com","password":"wrong-horse"}`, "")
	unknownEmail := do(s, http.MethodPost, "/auth/login", `{"email":"bia@acme.com","password":"correct-horse"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAuth_ChangePassword(t *testing.T) {
	// more credential requests than the auth burst allows
	t.Setenv("RATE_LIMIT_WHITELIST", "192.0.2.1")
	store := newMemStore()
	s := newTestServer(t, store, testConfig())
	token := bearer(t, s, store.addUser(t, "ana@acme.com"))

	t.Run("requires auth", func(t *testing.T) {
		w := do(s, http.MethodPost, "/auth/password", `{"current_password":"correct-horse","new_password":"battery-staple"}`, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong current password", func(t *testing.T) {
		w := do(s, http.MethodPost, "/auth/password", `{"current_password":"nope-nope","new_password":"battery-staple"}`, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("same password rejected", func(t *testing.T) {
		w := do(s, http.MethodPost, "/auth/password", `{"current_password":"correct-horse","new_password":"correct-horse"}`, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("changes password", func(t *testing.T) {
		w := do(s, http.MethodPost, "/auth/password", `{"current_password":"correct-horse","new_password":"battery-staple"}`, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = do(s, http.MethodPost, "/auth/login", `{"email":"ana@acme.com","password":"battery-staple"}`, "")
		assert.Equal(t, http.StatusOK, w.Code)
		w = do(s, http.MethodPost, "/auth/login", `{"email":"ana@acme.com","password":"correct-horse"}`, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestValidationError(t *testing.T) {
	req := &types.LoginRequest{Email: "nope"}
	err := validationError(req.Validate())

	var ve *ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Email", ve.Field)
	assert.Equal(t, "email", ve.Message)
}
