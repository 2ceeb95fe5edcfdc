package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplate_Valid(t *testing.T) {
	for _, tpl := range Templates() {
		assert.True(t, tpl.Valid(), tpl)
	}
	assert.False(t, Template("neon").Valid())
	assert.False(t, Template("").Valid())
	assert.False(t, Template("FLASH").Valid())
}

func TestCreateProposalRequest_Validate(t *testing.T) {
	ok := CreateProposalRequest{Template: TemplateFlash, Title: "Site novo"}
	assert.NoError(t, ok.Validate())

	noTitle := CreateProposalRequest{Template: TemplatePrime}
	assert.Error(t, noTitle.Validate())

	badTemplate := CreateProposalRequest{Template: "neon", Title: "x"}
	assert.Error(t, badTemplate.Validate())
}

func TestUpdateProposalRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UpdateProposalRequest{}).Validate())

	empty := ""
	assert.Error(t, (&UpdateProposalRequest{Title: &empty}).Validate())

	neon := Template("neon")
	assert.Error(t, (&UpdateProposalRequest{Template: &neon}).Validate())
}

func TestAssistRequest_Validate(t *testing.T) {
	req := AssistRequest{CompanyName: "Agência", ClientName: "Cliente", Service: "Site"}
	assert.NoError(t, req.Validate())

	req.Tone = "sarcastic"
	assert.Error(t, req.Validate())

	assert.Error(t, (&AssistRequest{}).Validate())
}

func TestChangePasswordRequest_Validate(t *testing.T) {
	assert.NoError(t, (&ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "new-secret"}).Validate())
	assert.Error(t, (&ChangePasswordRequest{CurrentPassword: "same-secret", NewPassword: "same-secret"}).Validate())
	assert.Error(t, (&ChangePasswordRequest{CurrentPassword: "old", NewPassword: "short"}).Validate())
}
