package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brief struct {
	CompanyName string
	ClientName  string
	Service     string
	Audience    string
	Tone        string
}

func TestList_ProposalSections(t *testing.T) {
	ClearCache()

	keys, err := List(ProposalFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"aboutUs", "faq", "footer", "introduction", "steps"}, keys)
}

func TestRender_FillsPlaceholders(t *testing.T) {
	ClearCache()

	out, err := Render(ProposalFile, "introduction", brief{
		CompanyName: "Agência Flash",
		ClientName:  "Padaria Central",
		Service:     "Gestão de redes sociais",
		Audience:    "moradores do bairro",
		Tone:        "friendly",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Agência Flash")
	assert.Contains(t, out, "Padaria Central")
	assert.NotContains(t, out, "{{")
}

func TestRender_MissingKeyFails(t *testing.T) {
	ClearCache()

	_, err := Render(ProposalFile, "footer", map[string]string{"CompanyName": "X"})
	assert.Error(t, err)
}

func TestGet_Errors(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "introduction")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")

	_, err = Get(ProposalFile, "pricing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGet_Cached(t *testing.T) {
	ClearCache()

	a, err := Get(ProposalFile, "faq")
	require.NoError(t, err)
	b, err := Get(ProposalFile, "faq")
	require.NoError(t, err)
	assert.Same(t, a, b)
}
