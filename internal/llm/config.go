// Package llm provides the language model client used to draft proposal copy.
package llm

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for short single-field copy
	TierLite ModelTier = "lite"
	// TierStandard is for structured multi-field sections
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Config holds the model configuration
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-1.5-flash-8b",
			TierStandard: "gemini-1.5-flash",
		},
		Temperature: 0.7,
	}
}

// GetModel returns the model name for a tier, falling back to the standard tier.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	return c.Models[TierStandard]
}

// WithModel returns a copy of c using model for tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
