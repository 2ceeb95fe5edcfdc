package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// RegisterRequest creates a dashboard account with password authentication.
type RegisterRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	CompanyName string `json:"company_name,omitempty" validate:"max=160"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User is the account as returned by the API. The password hash never leaves the db package.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse carries the account and its bearer token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Validate validates the RegisterRequest.
func (r *RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the LoginRequest.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// ChangePasswordRequest replaces the password of the authenticated account.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,nefield=CurrentPassword"`
}

// Validate validates the ChangePasswordRequest.
func (r *ChangePasswordRequest) Validate() error {
	return validate.Struct(r)
}
