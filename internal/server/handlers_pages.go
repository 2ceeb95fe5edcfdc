package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/proposal-pages/internal/injection"
	"github.com/jonathan/proposal-pages/internal/lifecycle"
	"github.com/jonathan/proposal-pages/internal/observability"
	"github.com/jonathan/proposal-pages/internal/schemas"
	"github.com/jonathan/proposal-pages/internal/templates"
	"github.com/jonathan/proposal-pages/internal/types"
)

// Render modes recorded by the renders metric.
const (
	modePublic  = "public"
	modePreview = "preview"
	modeOwner   = "owner"
)

// prunedHeader lists the payload fields dropped during normalization.
const prunedHeader = "X-Pruned-Fields"

// render loads a layout, populates it and serializes it in its revealed state.
func (s *Server) render(name types.Template, payload *types.Payload, mode string) (string, error) {
	page, err := templates.Load(name)
	if err != nil {
		return "", err
	}

	injector := injection.New(page.Bindings, s.logger.Named("injector").With(zap.String("template", string(name))))
	lifecycle.RenderNow(page.Doc, injector, payload)

	observability.RendersTotal.WithLabelValues(string(name), mode).Inc()
	if n := injector.Warnings(); n > 0 {
		observability.AnchorWarningsTotal.WithLabelValues(string(name)).Add(float64(n))
	}
	return templates.Render(page.Doc)
}

// handlePublicProposal serves a published proposal by slug.
func (s *Server) handlePublicProposal(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrUnavailable{Dependency: "database"})
		return
	}
	slug := r.PathValue("slug")

	p, err := s.store.GetPublishedProposalBySlug(r.Context(), slug)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if p == nil {
		s.writeError(w, &ErrNotFound{Resource: "proposal", ID: slug})
		return
	}

	payload, err := storedPayload(p.Payload, p.ProjectValidUntil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	html, err := s.render(types.Template(p.Template), payload, modePublic)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=60")
	s.htmlResponse(w, http.StatusOK, html)
}

// handlePreview renders a layout from an inbound message without storing it.
// Messages of any other type render the layout unpopulated.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	name := types.Template(r.PathValue("template"))
	if !name.Valid() {
		s.writeError(w, &ErrNotFound{Resource: "template", ID: string(name)})
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	msg, pruned, err := schemas.NormalizeMessage(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(pruned) > 0 {
		observability.PrunedFieldsTotal.Add(float64(len(pruned)))
		w.Header().Set(prunedHeader, strings.Join(schemas.PrunedFields(pruned), "; "))
	}

	var payload *types.Payload
	if msg.Type == types.MessageTypeTemplateData {
		payload = msg.Data
	}
	html, err := s.render(name, payload, modePreview)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	s.htmlResponse(w, http.StatusOK, html)
}
