package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-pages/internal/config"
)

const testJWTSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func newTestJWTService(hours int) *JWTService {
	return NewJWTService(&config.JWTConfig{Secret: testJWTSecret, Issuer: "proposal-pages", ExpirationHours: hours})
}

func TestJWTService_RoundTrip(t *testing.T) {
	service := newTestJWTService(24)
	userID := uuid.New()

	token, err := service.GenerateToken(userID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := service.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "proposal-pages", claims.Issuer)

	id, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, id)
}

func TestJWTService_Expired(t *testing.T) {
	service := newTestJWTService(1)
	token, err := service.GenerateToken(uuid.New())
	require.NoError(t, err)

	service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = service.ParseToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := newTestJWTService(24).GenerateToken(uuid.New())
	require.NoError(t, err)

	other := NewJWTService(&config.JWTConfig{Secret: "another-secret-of-sufficient-size", Issuer: "proposal-pages", ExpirationHours: 24})
	_, err = other.ParseToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token signature")
}

func TestJWTService_WrongIssuer(t *testing.T) {
	token, err := newTestJWTService(24).GenerateToken(uuid.New())
	require.NoError(t, err)

	other := NewJWTService(&config.JWTConfig{Secret: testJWTSecret, Issuer: "someone-else", ExpirationHours: 24})
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{UserID: uuid.New(), RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "proposal-pages",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = newTestJWTService(24).ParseToken(token)
	assert.Error(t, err)
}

func TestJWTService_Malformed(t *testing.T) {
	service := newTestJWTService(24)

	_, err := service.ParseToken("")
	assert.Error(t, err)

	_, err = service.ParseToken("not.a.token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}
