package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Template names a static page layout.
type Template string

// Available page layouts.
const (
	TemplateFlash   Template = "flash"
	TemplatePrime   Template = "prime"
	TemplateMinimal Template = "minimal"
)

// Templates lists every layout in display order.
func Templates() []Template {
	return []Template{TemplateFlash, TemplatePrime, TemplateMinimal}
}

// Valid reports whether t names a known layout.
func (t Template) Valid() bool {
	switch t {
	case TemplateFlash, TemplatePrime, TemplateMinimal:
		return true
	}
	return false
}

// Proposal is a stored proposal as returned by the dashboard API.
type Proposal struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	Template          Template   `json:"template"`
	Title             string     `json:"title"`
	Slug              string     `json:"slug"`
	Payload           *Payload   `json:"payload,omitempty"`
	ProjectValidUntil *time.Time `json:"project_valid_until,omitempty"`
	Published         bool       `json:"published"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CreateProposalRequest creates a draft proposal. Payload is normalized
// against the payload schema before it is stored.
type CreateProposalRequest struct {
	Template Template        `json:"template" validate:"required,oneof=flash prime minimal"`
	Title    string          `json:"title" validate:"required,min=1,max=200"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// UpdateProposalRequest replaces the editable parts of a proposal.
// Nil fields are left unchanged.
type UpdateProposalRequest struct {
	Template *Template       `json:"template,omitempty" validate:"omitempty,oneof=flash prime minimal"`
	Title    *string         `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// PublishRequest publishes or unpublishes a proposal. An empty body publishes.
type PublishRequest struct {
	Published *bool `json:"published,omitempty"`
}

// AssistRequest asks the AI workflow for a proposal draft.
type AssistRequest struct {
	CompanyName string `json:"company_name" validate:"required,max=160"`
	ClientName  string `json:"client_name" validate:"required,max=160"`
	Service     string `json:"service" validate:"required,max=500"`
	Audience    string `json:"audience,omitempty" validate:"max=500"`
	Tone        string `json:"tone,omitempty" validate:"omitempty,oneof=formal friendly bold"`
}

// Validate validates the CreateProposalRequest.
func (r *CreateProposalRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateProposalRequest.
func (r *UpdateProposalRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the AssistRequest.
func (r *AssistRequest) Validate() error {
	return validate.Struct(r)
}
