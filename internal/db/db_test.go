package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"accents", "Proposta Comercial: São Paulo", "proposta-comercial-sao-paulo"},
		{"cedilla", "Ação de Marketing", "acao-de-marketing"},
		{"punctuation collapses", "  Site --- Institucional!! ", "site-institucional"},
		{"digits kept", "Plano 2025", "plano-2025"},
		{"empty falls back", "", "proposta"},
		{"symbols only", "@@@", "proposta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugify_Truncates(t *testing.T) {
	slug := Slugify("uma proposta com um titulo muito longo que passa do limite de caracteres")
	assert.LessOrEqual(t, len(slug), maxSlugBase)
	assert.NotEqual(t, '-', rune(slug[len(slug)-1]))
}

func TestNewSlug(t *testing.T) {
	a := NewSlug("Site Novo")
	b := NewSlug("Site Novo")

	assert.Regexp(t, `^site-novo-[0-9a-f]{8}$`, a)
	assert.NotEqual(t, a, b)
}

func TestSubscriptionActive(t *testing.T) {
	now := time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name string
		sub  *Subscription
		want bool
	}{
		{"nil", nil, false},
		{"active open period", &Subscription{Status: SubscriptionActive}, true},
		{"active future end", &Subscription{Status: SubscriptionActive, CurrentPeriodEnd: &future}, true},
		{"active expired", &Subscription{Status: SubscriptionActive, CurrentPeriodEnd: &past}, false},
		{"trialing", &Subscription{Status: SubscriptionTrialing, CurrentPeriodEnd: &future}, true},
		{"canceled", &Subscription{Status: "canceled", CurrentPeriodEnd: &future}, false},
		{"past due", &Subscription{Status: "past_due"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.Active(now))
		})
	}
}

func TestMigrationNames(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "migrations/001_init.sql", names[0])
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@agencia.com.br", normalizeEmail("  Ana@Agencia.com.BR "))
}

func TestPayloadOrEmpty(t *testing.T) {
	assert.Equal(t, []byte("{}"), payloadOrEmpty(nil))
	assert.Equal(t, []byte(`{"a":1}`), payloadOrEmpty([]byte(`{"a":1}`)))
}
