package server

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// responder writes JSON and HTML responses and maps errors to statuses.
type responder struct {
	logger *zap.Logger
}

// jsonResponse writes a JSON response
func (s responder) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s responder) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to its status. Internal errors are logged, not echoed.
func (s responder) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.logger.Error("internal error", zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

func (s responder) htmlResponse(w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, html); err != nil {
		s.logger.Debug("failed to write HTML response", zap.Error(err))
	}
}
