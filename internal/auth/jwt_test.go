package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propman-backend/internal/auth"
	"propman-backend/internal/config"
	"propman-backend/internal/models"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "propman-backend"
	return cfg
}

func TestJWTManager_RoundTrip(t *testing.T) {
	manager := auth.NewJWTManager(testConfig("test-secret"))
	user := &models.User{ID: 42, Email: "ops@example.com", Role: "accountant"}

	token, err := manager.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "accountant", claims.Role)
	assert.Equal(t, "propman-backend", claims.Issuer)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	manager := auth.NewJWTManager(testConfig("test-secret"))
	other := auth.NewJWTManager(testConfig("other-secret"))

	token, err := manager.GenerateToken(&models.User{ID: 1, Email: "a@b.c", Role: "admin"})
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, auth.VerifyPassword(hash, "s3cret"))
	assert.False(t, auth.VerifyPassword(hash, "wrong"))
}
