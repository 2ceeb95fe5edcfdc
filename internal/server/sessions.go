package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-pages/internal/lifecycle"
	"github.com/jonathan/proposal-pages/internal/observability"
	"github.com/jonathan/proposal-pages/internal/templates"
	"github.com/jonathan/proposal-pages/internal/types"
)

// Session is one live template document driven by an embedding editor.
type Session struct {
	ID       string
	Page     *lifecycle.Page
	lastSeen time.Time
}

// SessionStore owns live sessions and expires them after an idle TTL.
type SessionStore struct {
	ttl     time.Duration
	timings lifecycle.Timings
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionStore creates a store. Expired sessions are swept every sweep
// interval when it is positive.
func NewSessionStore(ttl time.Duration, timings lifecycle.Timings, logger *zap.Logger, sweep time.Duration) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SessionStore{
		ttl:      ttl,
		timings:  timings,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	if sweep > 0 {
		go s.sweepLoop(sweep)
	}
	return s
}

// Create loads a template, starts its lifecycle and marks it interactive.
func (s *SessionStore) Create(name types.Template) (*Session, error) {
	tpl, err := templates.Load(name)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	page := lifecycle.New(tpl,
		lifecycle.WithTimings(s.timings),
		lifecycle.WithLogger(s.logger.With(zap.String("session", id))),
	)
	page.Start()
	page.DOMContentLoaded()

	sess := &Session{ID: id, Page: page, lastSeen: s.now()}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	observability.ActiveSessions.Inc()
	return sess, nil
}

// Get returns a live session and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess) {
		s.removeLocked(sess)
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess, true
}

// Touch refreshes the idle timer of a live session without returning it.
// It reports false when the session is gone or already expired.
func (s *SessionStore) Touch(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Delete closes a session and reports whether it existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		s.removeLocked(sess)
	}
	return ok
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes every expired session and returns how many it removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sess := range s.sessions {
		if s.expired(sess) {
			s.removeLocked(sess)
			n++
		}
	}
	if n > 0 {
		s.logger.Info("expired sessions removed", zap.Int("count", n))
	}
	return n
}

// Close stops the sweeper and closes every session.
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		s.removeLocked(sess)
	}
}

func (s *SessionStore) expired(sess *Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.lastSeen) > s.ttl
}

func (s *SessionStore) removeLocked(sess *Session) {
	delete(s.sessions, sess.ID)
	sess.Page.Close()
	observability.ActiveSessions.Dec()
}

func (s *SessionStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}
