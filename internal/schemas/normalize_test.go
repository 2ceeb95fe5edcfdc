package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-pages/internal/types"
)

func fields(errs []FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestNormalizePayload_Valid(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "payload_valid.json"))
	require.NoError(t, err)

	payload, pruned, err := NormalizePayload(raw)
	require.NoError(t, err)
	assert.Empty(t, pruned)
	require.NotNil(t, payload.ProposalData)

	assert.Equal(t, "2025-01-07T00:00:00Z", types.Deref(payload.ProjectValidUntil))
	assert.Equal(t, "whatsapp", types.Deref(payload.ButtonConfig.ButtonWhereToOpen))
	require.Len(t, payload.ProposalData.Team.Members, 2)
	assert.Equal(t, 1.0, payload.ProposalData.Team.Members[0].Order())
	assert.True(t, payload.ProposalData.AboutUs.HideSubtitle2)
	assert.True(t, payload.ProposalData.Plans.Items[0].Recommended)
	assert.Len(t, payload.ProposalData.Plans.Items[0].IncludedItems, 1)
	assert.Nil(t, payload.ProposalData.Expertise)
}

func TestNormalizePayload_PrunesInvalidFields(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "payload_dirty.json"))
	require.NoError(t, err)

	payload, pruned, err := NormalizePayload(raw)
	require.NoError(t, err)
	require.NotNil(t, payload)

	assert.ElementsMatch(t, []string{
		"projectValidUntil",
		"proposalData.introduction.title",
		"proposalData.team.title",
		"proposalData.team.members.0.sortOrder",
		"proposalData.team.members.1",
		"proposalData.team.members.2.hideMember",
		"proposalData.faq",
	}, fields(pruned))

	pd := payload.ProposalData
	assert.Nil(t, payload.ProjectValidUntil)
	assert.Nil(t, pd.Introduction.Title)
	assert.Equal(t, "Fica", types.Deref(pd.Introduction.Subtitle))
	assert.Nil(t, pd.Team.Title)
	assert.Nil(t, pd.FAQ)

	require.Len(t, pd.Team.Members, 2)
	assert.Equal(t, "Ana", types.Deref(pd.Team.Members[0].Name))
	assert.Nil(t, pd.Team.Members[0].SortOrder)
	assert.Equal(t, "Bruno", types.Deref(pd.Team.Members[1].Name))
	assert.False(t, pd.Team.Members[1].HideMember)
}

func TestNormalizePayload_Edges(t *testing.T) {
	payload, pruned, err := NormalizePayload([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, payload)
	assert.Empty(t, pruned)

	payload, _, err = NormalizePayload([]byte("{}"))
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Nil(t, payload.ProposalData)

	for _, raw := range []string{"[1,2]", `"text"`, "{not json", `{"a":1} {"b":2}`} {
		_, _, err := NormalizePayload([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidPayload, raw)
	}
}

func TestNormalizePayload_UnknownFieldsIgnored(t *testing.T) {
	payload, pruned, err := NormalizePayload([]byte(`{"proposalData":{"introduction":{"title":"Oi","color":"red"}},"extra":true}`))
	require.NoError(t, err)
	assert.Empty(t, pruned)
	assert.Equal(t, "Oi", types.Deref(payload.ProposalData.Introduction.Title))
}

func TestNormalizeMessage(t *testing.T) {
	msg, _, err := NormalizeMessage([]byte(`{"type":"FLASH_TEMPLATE_DATA","data":{"proposalData":{"footer":{"disclaimer":"x"}}}}`))
	require.NoError(t, err)
	assert.Equal(t, types.MessageTypeTemplateData, msg.Type)
	require.NotNil(t, msg.Data)
	assert.Equal(t, "x", types.Deref(msg.Data.ProposalData.Footer.Disclaimer))

	msg, _, err = NormalizeMessage([]byte(`{"type":"resize","data":{"height":300}}`))
	require.NoError(t, err)
	assert.Equal(t, "resize", msg.Type)
	assert.Nil(t, msg.Data)

	msg, _, err = NormalizeMessage([]byte(`{"type":"FLASH_TEMPLATE_DATA"}`))
	require.NoError(t, err)
	assert.Nil(t, msg.Data)

	_, _, err = NormalizeMessage([]byte(`"ping"`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestPrunedFields(t *testing.T) {
	lines := PrunedFields([]FieldError{{Field: "proposalData.faq", Message: "Invalid type. Expected: object, given: string"}})
	assert.Equal(t, []string{"proposalData.faq: Invalid type. Expected: object, given: string"}, lines)
}
