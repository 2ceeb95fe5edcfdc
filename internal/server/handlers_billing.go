package server

import (
	"io"
	"net/http"

	"go.uber.org/zap"
)

// maxWebhookBytes bounds webhook payloads.
const maxWebhookBytes = 65536

// handleStripeWebhook verifies and applies one Stripe event. Failures other
// than a bad signature answer non-2xx so Stripe retries the delivery.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	if s.billing == nil {
		s.writeError(w, &ErrUnavailable{Dependency: "billing"})
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "webhook payload too large")
		return
	}

	res, err := s.billing.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		s.logger.Warn("webhook rejected", zap.Error(err))
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}
