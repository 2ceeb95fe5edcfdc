package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/proposal-pages/internal/config"
	"github.com/jonathan/proposal-pages/internal/db"
)

// memStore is an in-memory Store.
type memStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*db.User
	proposals     map[uuid.UUID]*db.Proposal
	subscriptions map[uuid.UUID]*db.Subscription
	pingErr       error
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[uuid.UUID]*db.User),
		proposals:     make(map[uuid.UUID]*db.Proposal),
		subscriptions: make(map[uuid.UUID]*db.Subscription),
	}
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	u, _ := m.GetUserByEmail(context.Background(), email)
	return u != nil, nil
}

func (m *memStore) CreateUser(_ context.Context, name, email, companyName, passwordHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	u := &db.User{
		ID: uuid.New(), Name: name, Email: strings.ToLower(email), CompanyName: companyName,
		PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now,
	}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *memStore) CreateProposal(_ context.Context, userID uuid.UUID, in db.ProposalInput) (*db.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	p := &db.Proposal{
		ID: uuid.New(), UserID: userID, Template: in.Template, Title: in.Title,
		Slug: db.NewSlug(in.Title), Payload: in.Payload, ProjectValidUntil: in.ProjectValidUntil,
		CreatedAt: now, UpdatedAt: now,
	}
	if len(p.Payload) == 0 {
		p.Payload = []byte("{}")
	}
	m.proposals[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *memStore) GetProposal(_ context.Context, id uuid.UUID) (*db.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.proposals[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) GetPublishedProposalBySlug(_ context.Context, slug string) (*db.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.proposals {
		if p.Slug == slug && p.Published {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListProposalsByUser(_ context.Context, userID uuid.UUID) ([]db.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Proposal
	for _, p := range m.proposals {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	slices.SortFunc(out, func(a, b db.Proposal) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *memStore) CountProposalsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	list, err := m.ListProposalsByUser(ctx, userID)
	return len(list), err
}

func (m *memStore) UpdateProposal(_ context.Context, id uuid.UUID, in db.ProposalInput) (*db.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.proposals[id]
	if !ok {
		return nil, nil
	}
	p.Template, p.Title, p.ProjectValidUntil = in.Template, in.Title, in.ProjectValidUntil
	p.Payload = in.Payload
	if len(p.Payload) == 0 {
		p.Payload = []byte("{}")
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *memStore) SetPublished(_ context.Context, id uuid.UUID, published bool) (*db.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.proposals[id]
	if !ok {
		return nil, nil
	}
	p.Published = published
	cp := *p
	return &cp, nil
}

func (m *memStore) DeleteProposal(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.proposals[id]
	delete(m.proposals, id)
	return ok, nil
}

func (m *memStore) GetSubscriptionByUser(_ context.Context, userID uuid.UUID) (*db.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.subscriptions[userID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) GetSubscriptionByCustomer(_ context.Context, customerID string) (*db.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subscriptions {
		if s.StripeCustomerID == customerID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpsertSubscription(_ context.Context, s db.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = time.Now()
	m.subscriptions[s.UserID] = &s
	return nil
}

// addUser stores an account with password "correct-horse".
func (m *memStore) addUser(t *testing.T, email string) uuid.UUID {
	t.Helper()
	hash, err := testPasswordConfig().HashPassword("correct-horse")
	require.NoError(t, err)
	id, err := m.CreateUser(context.Background(), "Ana", email, "Acme", hash)
	require.NoError(t, err)
	return id
}

func testPasswordConfig() *config.PasswordConfig {
	return &config.PasswordConfig{BcryptCost: bcrypt.MinCost}
}

// testConfig uses short lifecycle timings so live sessions reveal quickly.
func testConfig() config.Config {
	return config.Config{
		BaseURL:           "https://propostas.example.com",
		Template:          "flash",
		FreeProposalLimit: 2,
		InjectDelayMS:     1,
		SettleMS:          1,
		FadeMS:            1,
		FallbackMS:        2000,
	}
}

func newTestServer(t *testing.T, store Store, cfg config.Config) *Server {
	t.Helper()
	var deps Dependencies
	if store != nil {
		deps.Store = store
		deps.JWT = &config.JWTConfig{Secret: testJWTSecret, Issuer: "proposal-pages", ExpirationHours: 1}
		deps.Password = testPasswordConfig()
	}
	s, err := New(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func bearer(t *testing.T, s *Server, userID uuid.UUID) string {
	t.Helper()
	token, err := s.jwtService.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

// do sends a request through the full middleware chain.
func do(s *Server, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}
