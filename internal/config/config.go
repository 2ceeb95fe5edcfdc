// Package config provides configuration loading and validation for the
// proposal service and its CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/proposal-pages/internal/types"
)

// Defaults applied by MergeWithDefaults and FromEnv.
const (
	DefaultPort              = 8080
	DefaultTemplate          = "flash"
	DefaultSessionTTLMinutes = 30
	DefaultFreeProposalLimit = 3
	DefaultModel             = "gemini-1.5-flash"
	DefaultAssistTimeoutSecs = 20
)

// Config is the service configuration. It can be loaded from a JSON file and
// overlaid with environment variables. All fields are optional; zero values
// take the defaults.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`
	BaseURL     string `json:"base_url,omitempty"`    // public URL the pages are served from
	CORSOrigin  string `json:"cors_origin,omitempty"` // allowed editor origin, "*" when empty

	// Rendering
	Template          string `json:"template,omitempty"` // default layout for new proposals
	SessionTTLMinutes int    `json:"session_ttl_minutes,omitempty"`
	InjectDelayMS     int    `json:"inject_delay_ms,omitempty"`
	SettleMS          int    `json:"settle_ms,omitempty"`
	FadeMS            int    `json:"fade_ms,omitempty"`
	FallbackMS        int    `json:"fallback_ms,omitempty"`

	// Plans
	FreeProposalLimit int `json:"free_proposal_limit,omitempty"`

	// Integrations
	APIKey              string `json:"api_key,omitempty"` // Gemini API key
	Model               string `json:"model,omitempty"`
	AssistTimeoutSecs   int    `json:"assist_timeout_secs,omitempty"`
	StripeWebhookSecret string `json:"stripe_webhook_secret,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required settings are checked by the command that needs them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.Template != "" && !types.Template(c.Template).Valid() {
		return fmt.Errorf("config error: unknown template %q", c.Template)
	}

	for name, v := range map[string]int{
		"session_ttl_minutes": c.SessionTTLMinutes,
		"inject_delay_ms":     c.InjectDelayMS,
		"settle_ms":           c.SettleMS,
		"fade_ms":             c.FadeMS,
		"fallback_ms":         c.FallbackMS,
		"free_proposal_limit": c.FreeProposalLimit,
		"assist_timeout_secs": c.AssistTimeoutSecs,
	} {
		if v < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", name)
		}
	}

	if c.FallbackMS > 0 && c.InjectDelayMS >= c.FallbackMS {
		return fmt.Errorf("config error: 'inject_delay_ms' must be shorter than 'fallback_ms'")
	}
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("config error: 'base_url' must be an http(s) URL")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults,
// then from the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.CORSOrigin == "" {
		result.CORSOrigin = defaults.CORSOrigin
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.StripeWebhookSecret == "" {
		result.StripeWebhookSecret = defaults.StripeWebhookSecret
	}
	result.Template = firstString(result.Template, defaults.Template, DefaultTemplate)
	result.Model = firstString(result.Model, defaults.Model, DefaultModel)

	result.Port = firstInt(result.Port, defaults.Port, DefaultPort)
	result.SessionTTLMinutes = firstInt(result.SessionTTLMinutes, defaults.SessionTTLMinutes, DefaultSessionTTLMinutes)
	result.FreeProposalLimit = firstInt(result.FreeProposalLimit, defaults.FreeProposalLimit, DefaultFreeProposalLimit)
	result.AssistTimeoutSecs = firstInt(result.AssistTimeoutSecs, defaults.AssistTimeoutSecs, DefaultAssistTimeoutSecs)
	result.InjectDelayMS = firstInt(result.InjectDelayMS, defaults.InjectDelayMS, 0)
	result.SettleMS = firstInt(result.SettleMS, defaults.SettleMS, 0)
	result.FadeMS = firstInt(result.FadeMS, defaults.FadeMS, 0)
	result.FallbackMS = firstInt(result.FallbackMS, defaults.FallbackMS, 0)

	// Bool fields cannot distinguish unset from false; CLI flags always win.

	return result
}

// FromEnv returns the settings present in the environment.
// Invalid numbers are reported rather than ignored.
func FromEnv() (Config, error) {
	var cfg Config
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.BaseURL = os.Getenv("BASE_URL")
	cfg.CORSOrigin = os.Getenv("CORS_ORIGIN")
	cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	cfg.Model = os.Getenv("GEMINI_MODEL")
	cfg.StripeWebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Template = os.Getenv("DEFAULT_TEMPLATE")

	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &cfg.Port},
		{"SESSION_TTL_MINUTES", &cfg.SessionTTLMinutes},
		{"FREE_PROPOSAL_LIMIT", &cfg.FreeProposalLimit},
		{"ASSIST_TIMEOUT_SECS", &cfg.AssistTimeoutSecs},
		{"FALLBACK_MS", &cfg.FallbackMS},
	}
	for _, v := range ints {
		if *v.dst, err = envInt(v.key); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// SessionTTL returns the idle lifetime of live preview sessions.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// AssistTimeout returns the per-section bound of AI drafting calls.
func (c *Config) AssistTimeout() time.Duration {
	return time.Duration(c.AssistTimeoutSecs) * time.Second
}

func envInt(key string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
