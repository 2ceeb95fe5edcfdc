package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const proposalColumns = `id, user_id, template, title, slug, payload, project_valid_until, published, created_at, updated_at`

func scanProposal(row pgx.Row) (*Proposal, error) {
	var p Proposal
	err := row.Scan(&p.ID, &p.UserID, &p.Template, &p.Title, &p.Slug, &p.Payload,
		&p.ProjectValidUntil, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func payloadOrEmpty(b []byte) []byte {
	if len(b) == 0 {
		return []byte("{}")
	}
	return b
}

// CreateProposal inserts a draft proposal with a fresh public slug.
func (db *DB) CreateProposal(ctx context.Context, userID uuid.UUID, in ProposalInput) (*Proposal, error) {
	p, err := scanProposal(db.pool.QueryRow(ctx,
		`INSERT INTO proposals (user_id, template, title, slug, payload, project_valid_until)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+proposalColumns,
		userID, in.Template, in.Title, NewSlug(in.Title), payloadOrEmpty(in.Payload), in.ProjectValidUntil,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}
	return p, nil
}

// GetProposal returns the proposal with id, or nil when there is none.
func (db *DB) GetProposal(ctx context.Context, id uuid.UUID) (*Proposal, error) {
	p, err := scanProposal(db.pool.QueryRow(ctx, `SELECT `+proposalColumns+` FROM proposals WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return p, nil
}

// GetPublishedProposalBySlug returns the published proposal with slug, or nil.
func (db *DB) GetPublishedProposalBySlug(ctx context.Context, slug string) (*Proposal, error) {
	p, err := scanProposal(db.pool.QueryRow(ctx,
		`SELECT `+proposalColumns+` FROM proposals WHERE slug = $1 AND published`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal by slug: %w", err)
	}
	return p, nil
}

// ListProposalsByUser returns the proposals of an account, newest first.
func (db *DB) ListProposalsByUser(ctx context.Context, userID uuid.UUID) ([]Proposal, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+proposalColumns+` FROM proposals WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	var out []Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return out, nil
}

// CountProposalsByUser returns how many proposals an account owns.
func (db *DB) CountProposalsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM proposals WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count proposals: %w", err)
	}
	return n, nil
}

// UpdateProposal overwrites the writable columns of a proposal. It returns nil
// when the proposal does not exist.
func (db *DB) UpdateProposal(ctx context.Context, id uuid.UUID, in ProposalInput) (*Proposal, error) {
	p, err := scanProposal(db.pool.QueryRow(ctx,
		`UPDATE proposals
		 SET template = $2, title = $3, payload = $4, project_valid_until = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+proposalColumns,
		id, in.Template, in.Title, payloadOrEmpty(in.Payload), in.ProjectValidUntil,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update proposal: %w", err)
	}
	return p, nil
}

// SetPublished publishes or unpublishes a proposal. It returns nil when the
// proposal does not exist.
func (db *DB) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*Proposal, error) {
	p, err := scanProposal(db.pool.QueryRow(ctx,
		`UPDATE proposals SET published = $2, updated_at = NOW() WHERE id = $1 RETURNING `+proposalColumns,
		id, published,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to publish proposal: %w", err)
	}
	return p, nil
}

// DeleteProposal removes a proposal and reports whether it existed.
func (db *DB) DeleteProposal(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete proposal: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
