package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/proposal-pages/internal/lifecycle"
	"github.com/jonathan/proposal-pages/internal/types"
)

const sseKeepAlive = 15 * time.Second

// CreateSessionRequest opens a live document for an embedding editor.
type CreateSessionRequest struct {
	Template types.Template `json:"template,omitempty"`
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := r.PathValue("id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		s.writeError(w, &ErrNotFound{Resource: "session", ID: id})
		return nil, false
	}
	return sess, true
}

func sessionView(sess *Session) map[string]any {
	return map[string]any{
		"id":         sess.ID,
		"template":   sess.Page.Name(),
		"state":      sess.Page.State().String(),
		"trigger":    string(sess.Page.Trigger()),
		"injections": sess.Page.Injections(),
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.Template == "" {
		req.Template = types.Template(s.cfg.Template)
	}
	if req.Template == "" {
		req.Template = types.TemplateFlash
	}

	sess, err := s.sessions.Create(req.Template)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("session created",
		zap.String("session", sess.ID),
		zap.String("template", string(req.Template)))
	s.jsonResponse(w, http.StatusCreated, sessionView(sess))
}

// handleSessionMessage delivers one message envelope to a live document.
// Messages of other types are acknowledged and ignored.
func (s *Server) handleSessionMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	handled, err := sess.Page.HandleRawMessage(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusAccepted
	if !handled {
		status = http.StatusOK
	}
	resp := sessionView(sess)
	resp["handled"] = handled
	s.jsonResponse(w, status, resp)
}

// handleSessionEvents streams lifecycle notifications as Server-Sent Events
// until the client leaves or the session closes.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	notifications, cancel := sess.Page.Subscribe()
	defer cancel()

	sse, err := openEventStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := sse.send(lifecycle.NotifyState, lifecycle.Notification{
		Name:  lifecycle.NotifyState,
		State: sess.Page.State().String(),
	}); err != nil {
		return
	}

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			// an open stream counts as activity
			s.sessions.Touch(sess.ID)
			if err := sse.comment("keep-alive"); err != nil {
				return
			}
		case n, open := <-notifications:
			if !open {
				_ = sse.send("closed", map[string]string{"id": sess.ID})
				return
			}
			if err := sse.send(n.Name, n); err != nil {
				s.logger.Debug("event stream write failed", zap.String("session", sess.ID), zap.Error(err))
				return
			}
		}
	}
}

// handleSessionDocument returns the document of a live session as it is now.
func (s *Server) handleSessionDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	html, err := sess.Page.HTML()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Page-State", sess.Page.State().String())
	s.htmlResponse(w, http.StatusOK, html)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.sessions.Delete(id) {
		s.writeError(w, &ErrNotFound{Resource: "session", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
