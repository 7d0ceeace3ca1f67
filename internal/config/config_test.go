package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFailsWithoutJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadReadsSecretAndKeepsDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "unit-test-secret", cfg.JWTSecret)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 8, cfg.JWTExpirationHours)
	assert.EqualValues(t, 500, cfg.DeliveryFeeCents)
}
