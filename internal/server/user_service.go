package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/proposal-pages/internal/config"
	"github.com/jonathan/proposal-pages/internal/db"
	"github.com/jonathan/proposal-pages/internal/types"
)

// UserService provides business logic for account authentication
type UserService struct {
	store          UserStore
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{store: store, passwordConfig: passwordConfig}
}

// toAPIUser converts db.User to types.User, excluding the password hash
func toAPIUser(u *db.User) *types.User {
	if u == nil {
		return nil
	}
	return &types.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		CompanyName: u.CompanyName,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Register creates an account with password authentication
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.User, error) {
	exists, err := s.store.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	hash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.store.CreateUser(ctx, req.Name, req.Email, req.CompanyName, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("created user not found: %s", id)
	}
	return toAPIUser(user), nil
}

// Login authenticates an account. Unknown emails and wrong passwords fail alike.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil || !s.passwordConfig.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	return toAPIUser(user), nil
}

// ChangePassword replaces the password of an account after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return &ErrNotFound{Resource: "user", ID: userID.String()}
	}
	if !s.passwordConfig.VerifyPassword(current, user.PasswordHash) {
		return &ErrInvalidCredentials{}
	}

	hash, err := s.passwordConfig.HashPassword(next)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
