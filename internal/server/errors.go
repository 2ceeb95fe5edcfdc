// Package server provides the HTTP API and page rendering service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/proposal-pages/internal/billing"
	"github.com/jonathan/proposal-pages/internal/lifecycle"
	"github.com/jonathan/proposal-pages/internal/schemas"
	"github.com/jonathan/proposal-pages/internal/templates"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrNotFound indicates a missing resource. Proposals owned by another
// account are reported as not found too.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrQuotaExceeded indicates a free account reached its proposal limit.
type ErrQuotaExceeded struct {
	UserID uuid.UUID
	Limit  int
}

func (e *ErrQuotaExceeded) Error() string {
	return fmt.Sprintf("free plan allows %d proposals; subscribe to create more", e.Limit)
}

// ErrUnavailable indicates a dependency the route needs is not configured.
type ErrUnavailable struct {
	Dependency string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Dependency)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		exists     *ErrEmailAlreadyExists
		creds      *ErrInvalidCredentials
		notFound   *ErrNotFound
		validation *ErrValidation
		quota      *ErrQuotaExceeded
		unavail    *ErrUnavailable
		sig        *billing.SignatureError
		event      *billing.EventError
		unlinked   *billing.UnlinkedCustomerError
	)
	switch {
	case errors.As(err, &exists), errors.As(err, &unlinked):
		return http.StatusConflict
	case errors.As(err, &creds):
		return http.StatusUnauthorized
	case errors.As(err, &notFound), errors.Is(err, templates.ErrUnknownTemplate):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &sig), errors.As(err, &event),
		errors.Is(err, schemas.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.As(err, &quota):
		return http.StatusPaymentRequired
	case errors.As(err, &unavail):
		return http.StatusServiceUnavailable
	case errors.Is(err, lifecycle.ErrClosed):
		return http.StatusGone
	case errors.Is(err, lifecycle.ErrLatePayload):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
