package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/proposal-pages/internal/billing"
	"github.com/jonathan/proposal-pages/internal/db"
)

// UserStore is the account storage used by UserService.
type UserStore interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, name, email, companyName, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// ProposalStore is the proposal and billing storage used by the dashboard routes.
type ProposalStore interface {
	CreateProposal(ctx context.Context, userID uuid.UUID, in db.ProposalInput) (*db.Proposal, error)
	GetProposal(ctx context.Context, id uuid.UUID) (*db.Proposal, error)
	GetPublishedProposalBySlug(ctx context.Context, slug string) (*db.Proposal, error)
	ListProposalsByUser(ctx context.Context, userID uuid.UUID) ([]db.Proposal, error)
	CountProposalsByUser(ctx context.Context, userID uuid.UUID) (int, error)
	UpdateProposal(ctx context.Context, id uuid.UUID, in db.ProposalInput) (*db.Proposal, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (*db.Proposal, error)
	DeleteProposal(ctx context.Context, id uuid.UUID) (bool, error)
	GetSubscriptionByUser(ctx context.Context, userID uuid.UUID) (*db.Subscription, error)
}

// Store is everything the server persists. *db.DB implements it.
type Store interface {
	UserStore
	ProposalStore
	billing.Store
	Ping(ctx context.Context) error
}

var _ Store = (*db.DB)(nil)
