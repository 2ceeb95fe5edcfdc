package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-pages/internal/assist"
	"github.com/jonathan/proposal-pages/internal/billing"
	"github.com/jonathan/proposal-pages/internal/config"
	"github.com/jonathan/proposal-pages/internal/lifecycle"
	"github.com/jonathan/proposal-pages/internal/llm"
	"github.com/jonathan/proposal-pages/internal/observability"
	"github.com/jonathan/proposal-pages/internal/server/middleware"
	"github.com/jonathan/proposal-pages/internal/server/ratelimit"
)

const maxBodyBytes = 1 << 20

// Dependencies are the collaborators of the server. Store and the auth
// configs are optional together: without them only the public rendering
// and session routes work.
type Dependencies struct {
	Store    Store
	JWT      *config.JWTConfig
	Password *config.PasswordConfig
	LLM      llm.Client
	Logger   *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	responder
	cfg         config.Config
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	rateLimiter *ratelimit.Limiter
	sessions    *SessionStore
	jwtService  *JWTService
	authHandler *AuthHandler
	workflow    *assist.ProposalWorkflow
	billing     *billing.Syncer
}

// New creates a server from a merged configuration.
func New(cfg config.Config, deps Dependencies) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Store != nil && (deps.JWT == nil || deps.Password == nil) {
		return nil, fmt.Errorf("JWT and password configuration are required with a store")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:         cfg,
		responder:   responder{logger: logger},
		store:       deps.Store,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		sessions:    NewSessionStore(cfg.SessionTTL(), sessionTimings(cfg), logger, time.Minute),
		workflow: assist.NewProposalWorkflow(deps.LLM,
			assist.WithSectionTimeout(cfg.AssistTimeout()),
			assist.WithLogger(logger.Named("assist")),
		),
	}

	if deps.Store != nil {
		s.jwtService = NewJWTService(deps.JWT)
		s.authHandler = NewAuthHandler(NewUserService(deps.Store, deps.Password), s.jwtService, logger)
		if cfg.StripeWebhookSecret != "" {
			s.billing = billing.NewSyncer(deps.Store, cfg.StripeWebhookSecret, logger.Named("billing"))
		}
	}

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(s.routes())))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
		// no WriteTimeout: session event streams stay open
	}
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Rendering
	mux.HandleFunc("GET /p/{slug}", s.handlePublicProposal)
	mux.HandleFunc("POST /preview/{template}", s.handlePreview)

	// Live sessions
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("POST /sessions/{id}/messages", s.handleSessionMessage)
	mux.HandleFunc("GET /sessions/{id}/events", s.handleSessionEvents)
	mux.HandleFunc("GET /sessions/{id}/document", s.handleSessionDocument)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)

	// Accounts
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("POST /auth/password", s.authed(s.handleChangePassword))

	// Dashboard
	mux.Handle("GET /proposals", s.authed(s.handleListProposals))
	mux.Handle("POST /proposals", s.authed(s.handleCreateProposal))
	mux.Handle("GET /proposals/{id}", s.authed(s.handleGetProposal))
	mux.Handle("PUT /proposals/{id}", s.authed(s.handleUpdateProposal))
	mux.Handle("DELETE /proposals/{id}", s.authed(s.handleDeleteProposal))
	mux.Handle("POST /proposals/{id}/publish", s.authed(s.handlePublishProposal))
	mux.Handle("GET /proposals/{id}/render", s.authed(s.handleRenderProposal))
	mux.Handle("POST /proposals/{id}/assist", s.authed(s.handleAssist))

	// Billing
	mux.HandleFunc("POST /webhooks/stripe", s.handleStripeWebhook)
	return mux
}

// authed wraps h with bearer authentication, or answers 503 without a store.
func (s *Server) authed(h http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			s.writeError(w, &ErrUnavailable{Dependency: "database"})
		})
	}
	return middleware.RequireAuth(s.jwtService)(h)
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Sessions returns the live session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// session streams end when their pages close
	s.sessions.Close()
	err := s.httpServer.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close releases background workers. It does not close the store.
func (s *Server) Close() {
	s.rateLimiter.Stop()
	s.sessions.Close()
}

func sessionTimings(cfg config.Config) lifecycle.Timings {
	t := lifecycle.DefaultTimings()
	ms := func(v int, d *time.Duration) {
		if v > 0 {
			*d = time.Duration(v) * time.Millisecond
		}
	}
	ms(cfg.InjectDelayMS, &t.InjectDelay)
	ms(cfg.FadeMS, &t.Fade)
	ms(cfg.SettleMS, &t.Settle)
	ms(cfg.FallbackMS, &t.Fallback)
	return t
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := s.cfg.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if origin != "*" {
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit answers 429 once a client exhausts its bucket.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging logs each request and records its latency by route pattern.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		observability.HTTPRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.String("client", clientID(r)),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("request failed", fields...)
			return
		}
		s.logger.Info("request", fields...)
	})
}

// handleHealth reports liveness and the state of the store.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disabled"
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		dbStatus = "ok"
		if err := s.store.Ping(ctx); err != nil {
			dbStatus = "unavailable"
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"database": dbStatus,
		"sessions": s.sessions.Len(),
	})
}

// readBody reads at most maxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Message: "request body too large or unreadable"}
	}
	return body, nil
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Message: "invalid request body: " + err.Error()}
	}
	return nil
}

// clientID is the remote IP of the request.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", clientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
