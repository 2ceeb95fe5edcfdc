//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request RegisterRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid request",
			request: RegisterRequest{
				Name:        "Ana Souza",
				Email:       "ana@example.com",
				Password:    "password123",
				CompanyName: "Agência Flash",
			},
		},
		{
			name: "valid request without company",
			request: RegisterRequest{
				Name:     "Ana Souza",
				Email:    "ana@example.com",
				Password: "password123",
			},
		},
		{
			name: "missing name",
			request: RegisterRequest{
				Email:    "ana@example.com",
				Password: "password123",
			},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name: "invalid email format",
			request: RegisterRequest{
				Name:     "Ana Souza",
				Email:    "not-an-email",
				Password: "password123",
			},
			wantErr: true,
			errMsg:  "email",
		},
		{
			name: "short password",
			request: RegisterRequest{
				Name:     "Ana Souza",
				Email:    "ana@example.com",
				Password: "short",
			},
			wantErr: true,
			errMsg:  "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoginRequest_Validation(t *testing.T) {
	ok := LoginRequest{Email: "ana@example.com", Password: "x"}
	assert.NoError(t, ok.Validate())

	missing := LoginRequest{Email: "ana@example.com"}
	assert.Error(t, missing.Validate())
}

func TestCreateProposalRequest_Validation(t *testing.T) {
	valid := CreateProposalRequest{Template: TemplateFlash, Title: "Proposta Loja X"}
	assert.NoError(t, valid.Validate())

	unknown := CreateProposalRequest{Template: "neon", Title: "Proposta"}
	err := unknown.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oneof")

	untitled := CreateProposalRequest{Template: TemplatePrime}
	assert.Error(t, untitled.Validate())
}

func TestUpdateProposalRequest_Validation(t *testing.T) {
	assert.NoError(t, (&UpdateProposalRequest{}).Validate())

	bad := Template("neon")
	assert.Error(t, (&UpdateProposalRequest{Template: &bad}).Validate())

	empty := ""
	assert.Error(t, (&UpdateProposalRequest{Title: &empty}).Validate())
}
