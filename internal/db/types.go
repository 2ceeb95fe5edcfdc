package db

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CompanyName  string    `json:"company_name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Proposal is a proposal row. Payload is the raw JSONB document.
type Proposal struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	Template          string     `json:"template"`
	Title             string     `json:"title"`
	Slug              string     `json:"slug"`
	Payload           []byte     `json:"payload"`
	ProjectValidUntil *time.Time `json:"project_valid_until,omitempty"`
	Published         bool       `json:"published"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ProposalInput carries the writable columns of a proposal.
type ProposalInput struct {
	Template          string
	Title             string
	Payload           []byte
	ProjectValidUntil *time.Time
}

// Subscription status values that grant the paid plan.
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
)

// Subscription mirrors the billing state of one account.
type Subscription struct {
	UserID               uuid.UUID  `json:"user_id"`
	StripeCustomerID     string     `json:"stripe_customer_id"`
	StripeSubscriptionID string     `json:"stripe_subscription_id"`
	Status               string     `json:"status"`
	PriceID              string     `json:"price_id"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end,omitempty"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Active reports whether the subscription grants the paid plan at now.
func (s *Subscription) Active(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.Status != SubscriptionActive && s.Status != SubscriptionTrialing {
		return false
	}
	return s.CurrentPeriodEnd == nil || s.CurrentPeriodEnd.After(now)
}
