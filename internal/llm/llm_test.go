package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-1.5-flash-8b", config.GetModel(TierLite))
	assert.Equal(t, "gemini-1.5-flash", config.GetModel(TierStandard))
}

func TestGetModel_FallsBackToStandard(t *testing.T) {
	config := &Config{Models: map[ModelTier]string{TierStandard: "std"}}

	assert.Equal(t, "std", config.GetModel(TierLite))
	assert.Equal(t, "std", config.GetModel("unknown"))
	assert.Equal(t, "", (&Config{}).GetModel(TierLite))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	custom := config.WithModel(TierStandard, "gemini-2.0-flash")

	assert.Equal(t, "gemini-1.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.0-flash", custom.GetModel(TierStandard))
	assert.Equal(t, "gemini-1.5-flash-8b", custom.GetModel(TierLite))
	assert.Equal(t, config.Temperature, custom.Temperature)
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"title\": \"Olá\"}\n```", `{"title": "Olá"}`},
		{"bare fence", "```\n{\"title\": \"Olá\"}\n```", `{"title": "Olá"}`},
		{"plain", `{"title": "Olá"}`, `{"title": "Olá"}`},
		{"preamble", "Aqui está o JSON:\n{\"title\": \"Olá\"}\nEspero que ajude.", `{"title": "Olá"}`},
		{"no object", "sem json", "sem json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestExtractText(t *testing.T) {
	_, err := extractText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(`1}`)}},
		}},
	}
	text, err := extractText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
}
