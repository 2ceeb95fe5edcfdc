package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-pages/internal/db"
)

const previewMessage = `{
	"type": "FLASH_TEMPLATE_DATA",
	"data": {
		"proposalData": {
			"introduction": {"subtitle": "Crescimento para a Acme"}
		},
		"projectValidUntil": "2025-01-07"
	}
}`

func TestPreview_RendersPayload(t *testing.T) {
	s := newTestServer(t, nil, testConfig())

	w := do(s, http.MethodPost, "/preview/flash", previewMessage, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Crescimento para a Acme")
	assert.Contains(t, w.Body.String(), "7 Janeiro, 2025")
	assert.Empty(t, w.Header().Get(prunedHeader))
}

func TestPreview_OtherMessageTypeRendersUnpopulated(t *testing.T) {
	s := newTestServer(t, nil, testConfig())

	w := do(s, http.MethodPost, "/preview/prime",
		`{"type":"RESIZE","data":{"proposalData":{"introduction":{"subtitle":"Nao deve aparecer"}}}}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Nao deve aparecer")
}

func TestPreview_PrunesInvalidFields(t *testing.T) {
	s := newTestServer(t, nil, testConfig())

	w := do(s, http.MethodPost, "/preview/flash",
		`{"type":"FLASH_TEMPLATE_DATA","data":{"proposalData":{"introduction":{"title":5,"subtitle":"Ainda renderiza"}}}}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get(prunedHeader), "title")
	assert.Contains(t, w.Body.String(), "Ainda renderiza")
}

func TestPreview_Errors(t *testing.T) {
	s := newTestServer(t, nil, testConfig())

	t.Run("unknown template", func(t *testing.T) {
		w := do(s, http.MethodPost, "/preview/baroque", previewMessage, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(s, http.MethodPost, "/preview/flash", `{"type":`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid payload")
	})
}

func TestPublicProposal(t *testing.T) {
	store := newMemStore()
	s := newTestServer(t, store, testConfig())
	ctx := context.Background()
	owner := uuid.New()

	p, err := store.CreateProposal(ctx, owner, db.ProposalInput{
		Template: "minimal",
		Title:    "Site novo",
		Payload:  []byte(`{"proposalData":{"introduction":{"subtitle":"Pagina publicada"}}}`),
	})
	require.NoError(t, err)

	t.Run("unpublished is not found", func(t *testing.T) {
		w := do(s, http.MethodGet, "/p/"+p.Slug, "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	_, err = store.SetPublished(ctx, p.ID, true)
	require.NoError(t, err)

	t.Run("published renders", func(t *testing.T) {
		w := do(s, http.MethodGet, "/p/"+p.Slug, "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Pagina publicada")
		assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))
	})

	t.Run("unknown slug", func(t *testing.T) {
		w := do(s, http.MethodGet, "/p/missing-slug", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStoredPayload_FallsBackToColumnDate(t *testing.T) {
	payload, err := storedPayload([]byte(`{}`), nil)
	require.NoError(t, err)
	assert.Nil(t, payload.ProjectValidUntil)

	d := mustDate(t, "2025-03-09")
	payload, err = storedPayload([]byte(`{}`), &d)
	require.NoError(t, err)
	require.NotNil(t, payload.ProjectValidUntil)
	assert.Equal(t, "2025-03-09", *payload.ProjectValidUntil)

	payload, err = storedPayload([]byte(`{"projectValidUntil":"2026-01-01"}`), &d)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", *payload.ProjectValidUntil)
}
