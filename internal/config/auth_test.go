package config

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef-secret"

func TestNewJWTConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	t.Setenv("JWT_ISSUER", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.Secret)
	assert.Equal(t, "proposal-pages", cfg.Issuer)
	assert.Equal(t, 24, cfg.ExpirationHours)
	assert.Equal(t, 24*time.Hour, cfg.TTL())

	t.Setenv("JWT_EXPIRATION_HOURS", "72")
	t.Setenv("JWT_ISSUER", "dashboard")
	cfg, err = NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 72, cfg.ExpirationHours)
	assert.Equal(t, "dashboard", cfg.Issuer)
}

func TestNewJWTConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		hours   string
		wantErr string
	}{
		{"missing secret", "", "24", "JWT_SECRET is required"},
		{"short secret", "short", "24", "at least 16 characters"},
		{"zero hours", testSecret, "0", "at least 1 hour"},
		{"not a number", testSecret, "day", "invalid JWT_EXPIRATION_HOURS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.hours)

			cfg, err := NewJWTConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		wantCost int
		wantErr  string
	}{
		{"default", "", 12, ""},
		{"min", "10", 10, ""},
		{"max", "14", 14, ""},
		{"too low", "9", 0, "out of range"},
		{"too high", "15", 0, "out of range"},
		{"invalid", "high", 0, "invalid BCRYPT_COST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			cfg, err := NewPasswordConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("s3nha-forte")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))
	assert.True(t, cfg.VerifyPassword("s3nha-forte", hash))
	assert.False(t, cfg.VerifyPassword("s3nha-fraca", hash))

	again, err := cfg.HashPassword("s3nha-forte")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salts must differ")
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "pimenta"}
	plain := &PasswordConfig{BcryptCost: 10}

	hash, err := peppered.HashPassword("senha")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("senha", hash))
	assert.False(t, plain.VerifyPassword("senha", hash))
	assert.False(t, (&PasswordConfig{BcryptCost: 10, Pepper: "rotated"}).VerifyPassword("senha", hash))
}

func TestPasswordConfig_TooLong(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}
	_, err := cfg.HashPassword(strings.Repeat("a", 73))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to hash password")
}

func TestPasswordConfig_Concurrent(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}
	hash, err := cfg.HashPassword("compartilhada")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, cfg.VerifyPassword("compartilhada", hash))
		}()
	}
	wg.Wait()
}
