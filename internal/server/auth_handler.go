// Package server provides the HTTP API of the proposal pages service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-pages/internal/server/middleware"
	"github.com/jonathan/proposal-pages/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	responder
	userService *UserService
	jwtService  *JWTService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		responder:   responder{logger: logger},
		userService: userService,
		jwtService:  jwtService,
	}
}

// Register creates an account and returns it with a token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, validationError(err))
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondWithToken(w, http.StatusCreated, user)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, validationError(err))
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.respondWithToken(w, http.StatusOK, user)
}

// ChangePassword replaces the password of the authenticated account.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		h.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, validationError(err))
		return
	}

	if err := h.userService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.writeError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.writeError(w, fmt.Errorf("failed to generate token: %w", err))
		return
	}
	h.jsonResponse(w, status, types.LoginResponse{User: user, Token: token})
}

// validationError reports the first failing field of a validator error.
func validationError(err error) error {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		return &ErrValidation{Field: fields[0].Field(), Message: fields[0].Tag()}
	}
	return &ErrValidation{Message: "invalid request"}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.authHandler == nil {
		s.writeError(w, &ErrUnavailable{Dependency: "database"})
		return
	}
	s.authHandler.Register(w, r)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.authHandler == nil {
		s.writeError(w, &ErrUnavailable{Dependency: "database"})
		return
	}
	s.authHandler.Login(w, r)
}

// handleChangePassword is only mounted behind authed, which already
// answers 503 when there is no store.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	s.authHandler.ChangePassword(w, r)
}
