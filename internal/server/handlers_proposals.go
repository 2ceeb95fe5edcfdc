package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-pages/internal/db"
	"github.com/jonathan/proposal-pages/internal/format"
	"github.com/jonathan/proposal-pages/internal/observability"
	"github.com/jonathan/proposal-pages/internal/schemas"
	"github.com/jonathan/proposal-pages/internal/server/middleware"
	"github.com/jonathan/proposal-pages/internal/types"
)

// ---------------------------------------------------------------------
// Payload conversion
// ---------------------------------------------------------------------

// storedPayload decodes a stored payload column. Rows without a validity date
// in the payload fall back to the project_valid_until column.
func storedPayload(raw []byte, validUntil *time.Time) (*types.Payload, error) {
	payload := &types.Payload{}
	if len(bytes.TrimSpace(raw)) > 0 {
		decoded, _, err := schemas.NormalizePayload(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode stored payload: %w", err)
		}
		if decoded != nil {
			payload = decoded
		}
	}
	if payload.ProjectValidUntil == nil && validUntil != nil {
		payload.ProjectValidUntil = types.String(validUntil.UTC().Format("2006-01-02"))
	}
	return payload, nil
}

// normalizedInput is a request payload cleaned for storage.
type normalizedInput struct {
	payload    []byte
	validUntil *time.Time
	pruned     []schemas.FieldError
}

// normalizeInput prunes invalid fields from a request payload and derives the
// validity column from it. A date that does not parse leaves the column empty.
func normalizeInput(raw json.RawMessage) (*normalizedInput, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return &normalizedInput{}, nil
	}
	payload, pruned, err := schemas.NormalizePayload(raw)
	if err != nil {
		return nil, &ErrValidation{Field: "payload", Message: err.Error()}
	}
	if payload == nil {
		payload = &types.Payload{}
	}
	out := &normalizedInput{pruned: pruned}
	if out.payload, err = json.Marshal(payload); err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	if payload.ProjectValidUntil != nil {
		if t, err := format.ParseDate(*payload.ProjectValidUntil); err == nil {
			out.validUntil = &t
		}
	}
	return out, nil
}

func toAPIProposal(p *db.Proposal) (*types.Proposal, error) {
	payload, err := storedPayload(p.Payload, nil)
	if err != nil {
		return nil, err
	}
	return &types.Proposal{
		ID:                p.ID,
		UserID:            p.UserID,
		Template:          types.Template(p.Template),
		Title:             p.Title,
		Slug:              p.Slug,
		Payload:           payload,
		ProjectValidUntil: p.ProjectValidUntil,
		Published:         p.Published,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}, nil
}

func setPrunedHeader(w http.ResponseWriter, pruned []schemas.FieldError) {
	if len(pruned) == 0 {
		return
	}
	observability.PrunedFieldsTotal.Add(float64(len(pruned)))
	w.Header().Set(prunedHeader, strings.Join(schemas.PrunedFields(pruned), "; "))
}

// ---------------------------------------------------------------------
// Ownership and quota
// ---------------------------------------------------------------------

// ownedProposal loads the proposal in the path. Proposals of other accounts
// are reported as not found.
func (s *Server) ownedProposal(r *http.Request) (*db.Proposal, uuid.UUID, error) {
	userID, _ := middleware.UserID(r.Context())
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, userID, &ErrValidation{Field: "id", Message: "invalid proposal ID"}
	}

	p, err := s.store.GetProposal(r.Context(), id)
	if err != nil {
		return nil, userID, fmt.Errorf("failed to get proposal: %w", err)
	}
	if p == nil || p.UserID != userID {
		return nil, userID, &ErrNotFound{Resource: "proposal", ID: idStr}
	}
	return p, userID, nil
}

// checkQuota fails when an account without an active subscription already
// owns the free number of proposals. A non-positive limit disables the quota.
func (s *Server) checkQuota(ctx context.Context, userID uuid.UUID) error {
	limit := s.cfg.FreeProposalLimit
	if limit <= 0 {
		return nil
	}
	sub, err := s.store.GetSubscriptionByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub.Active(time.Now()) {
		return nil
	}
	count, err := s.store.CountProposalsByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count proposals: %w", err)
	}
	if count >= limit {
		return &ErrQuotaExceeded{UserID: userID, Limit: limit}
	}
	return nil
}

// publicURL is where a published proposal is served.
func (s *Server) publicURL(slug string) string {
	return strings.TrimSuffix(s.cfg.BaseURL, "/") + "/p/" + slug
}

// ---------------------------------------------------------------------
// Proposal Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	list, err := s.store.ListProposalsByUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to list proposals: %w", err))
		return
	}

	out := make([]*types.Proposal, 0, len(list))
	for i := range list {
		p, err := toAPIProposal(&list[i])
		if err != nil {
			s.writeError(w, err)
			return
		}
		out = append(out, p)
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"proposals": out,
		"count":     len(out),
	})
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req types.CreateProposalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}
	if err := s.checkQuota(r.Context(), userID); err != nil {
		s.writeError(w, err)
		return
	}

	in, err := normalizeInput(req.Payload)
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, err := s.store.CreateProposal(r.Context(), userID, db.ProposalInput{
		Template:          string(req.Template),
		Title:             req.Title,
		Payload:           in.payload,
		ProjectValidUntil: in.validUntil,
	})
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to create proposal: %w", err))
		return
	}

	out, err := toAPIProposal(p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("proposal created",
		zap.String("proposal_id", p.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("template", p.Template))
	setPrunedHeader(w, in.pruned)
	s.jsonResponse(w, http.StatusCreated, out)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	p, _, err := s.ownedProposal(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out, err := toAPIProposal(p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleUpdateProposal(w http.ResponseWriter, r *http.Request) {
	p, _, err := s.ownedProposal(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req types.UpdateProposalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}

	input := db.ProposalInput{
		Template:          p.Template,
		Title:             p.Title,
		Payload:           p.Payload,
		ProjectValidUntil: p.ProjectValidUntil,
	}
	if req.Template != nil {
		input.Template = string(*req.Template)
	}
	if req.Title != nil {
		input.Title = *req.Title
	}
	var pruned []schemas.FieldError
	if req.Payload != nil {
		in, err := normalizeInput(req.Payload)
		if err != nil {
			s.writeError(w, err)
			return
		}
		input.Payload, input.ProjectValidUntil, pruned = in.payload, in.validUntil, in.pruned
	}

	updated, err := s.store.UpdateProposal(r.Context(), p.ID, input)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to update proposal: %w", err))
		return
	}
	if updated == nil {
		s.writeError(w, &ErrNotFound{Resource: "proposal", ID: p.ID.String()})
		return
	}
	out, err := toAPIProposal(updated)
	if err != nil {
		s.writeError(w, err)
		return
	}
	setPrunedHeader(w, pruned)
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleDeleteProposal(w http.ResponseWriter, r *http.Request) {
	p, _, err := s.ownedProposal(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	deleted, err := s.store.DeleteProposal(r.Context(), p.ID)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to delete proposal: %w", err))
		return
	}
	if !deleted {
		s.writeError(w, &ErrNotFound{Resource: "proposal", ID: p.ID.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePublishProposal publishes a proposal, or unpublishes it with
// {"published": false}. An empty body publishes.
func (s *Server) handlePublishProposal(w http.ResponseWriter, r *http.Request) {
	p, _, err := s.ownedProposal(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req types.PublishRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, &ErrValidation{Message: "invalid request body: " + err.Error()})
			return
		}
	}
	published := req.Published == nil || *req.Published

	updated, err := s.store.SetPublished(r.Context(), p.ID, published)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to publish proposal: %w", err))
		return
	}
	if updated == nil {
		s.writeError(w, &ErrNotFound{Resource: "proposal", ID: p.ID.String()})
		return
	}

	resp := map[string]any{
		"id":        updated.ID,
		"slug":      updated.Slug,
		"published": updated.Published,
	}
	if updated.Published {
		resp["url"] = s.publicURL(updated.Slug)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRenderProposal renders a proposal for its owner, published or not.
func (s *Server) handleRenderProposal(w http.ResponseWriter, r *http.Request) {
	p, _, err := s.ownedProposal(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	payload, err := storedPayload(p.Payload, p.ProjectValidUntil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	html, err := s.render(types.Template(p.Template), payload, modeOwner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	s.htmlResponse(w, http.StatusOK, html)
}

// handleAssist drafts the text sections of a proposal. Drafted sections only
// fill sections the proposal does not have yet unless overwrite=true.
func (s *Server) handleAssist(w http.ResponseWriter, r *http.Request) {
	p, _, err := s.ownedProposal(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req types.AssistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}
	overwrite, _ := strconv.ParseBool(r.URL.Query().Get("overwrite"))

	draft, err := s.workflow.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to draft proposal: %w", err))
		return
	}

	payload, err := storedPayload(p.Payload, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if payload.ProposalData == nil {
		payload.ProposalData = &types.ProposalData{}
	}
	mergeDraft(payload.ProposalData, draft.Data, overwrite)

	raw, err := json.Marshal(payload)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to encode payload: %w", err))
		return
	}
	updated, err := s.store.UpdateProposal(r.Context(), p.ID, db.ProposalInput{
		Template:          p.Template,
		Title:             p.Title,
		Payload:           raw,
		ProjectValidUntil: p.ProjectValidUntil,
	})
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to save draft: %w", err))
		return
	}
	if updated == nil {
		s.writeError(w, &ErrNotFound{Resource: "proposal", ID: p.ID.String()})
		return
	}
	out, err := toAPIProposal(updated)
	if err != nil {
		s.writeError(w, err)
		return
	}

	fallbacks := draft.Fallbacks
	if fallbacks == nil {
		fallbacks = []string{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"proposal":  out,
		"fallbacks": fallbacks,
	})
}

// mergeDraft copies drafted sections into dst.
func mergeDraft(dst, draft *types.ProposalData, overwrite bool) {
	if draft == nil {
		return
	}
	fill(&dst.Introduction, draft.Introduction, overwrite)
	fill(&dst.AboutUs, draft.AboutUs, overwrite)
	fill(&dst.Steps, draft.Steps, overwrite)
	fill(&dst.FAQ, draft.FAQ, overwrite)
	fill(&dst.Footer, draft.Footer, overwrite)
}

func fill[T any](dst **T, src *T, overwrite bool) {
	if src != nil && (overwrite || *dst == nil) {
		*dst = src
	}
}
