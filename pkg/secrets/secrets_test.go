package secrets

import (
	"context"
	"testing"

	"apostila-ai/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultManagerDisabledReadsEnvironment(t *testing.T) {
	t.Setenv("VAULT_ENABLED", "")
	t.Setenv("CHATVOLT_API_KEY", "env-key")

	m, err := NewVaultManager(VaultConfigFromEnv(), logger.Discard())
	require.NoError(t, err)
	assert.False(t, m.Enabled())
	assert.NoError(t, m.Ping(context.Background()))

	v, err := m.GetSecret(context.Background(), "chatvolt_api_key")
	require.NoError(t, err)
	assert.Equal(t, "env-key", v)

	v, err = m.GetSecret(context.Background(), "chatvolt-api-key")
	require.NoError(t, err)
	assert.Equal(t, "env-key", v)

	// the environment is read on every call
	t.Setenv("CHATVOLT_API_KEY", "rotated")
	assert.Equal(t, "rotated", m.GetSecretWithDefault(context.Background(), "chatvolt_api_key", ""))

	_, err = m.GetSecret(context.Background(), "chatvolt_missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)
	assert.Equal(t, "fallback", m.GetSecretWithDefault(context.Background(), "chatvolt_missing", "fallback"))
}

func TestVaultManagerEnabledNeedsAddressAndToken(t *testing.T) {
	_, err := NewVaultManager(VaultConfig{Enabled: true}, logger.Discard())
	assert.ErrorIs(t, err, ErrNoVaultAddress)

	_, err = NewVaultManager(VaultConfig{Enabled: true, Address: "http://127.0.0.1:8200"}, logger.Discard())
	assert.ErrorIs(t, err, ErrNoVaultToken)
}

func TestVaultConfigFromEnv(t *testing.T) {
	t.Setenv("VAULT_ENABLED", "yes")
	t.Setenv("VAULT_MOUNT", "")
	t.Setenv("VAULT_SECRETS_PATH", "")

	cfg := VaultConfigFromEnv()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "secret", cfg.Mount)
	assert.Equal(t, "apostila-ai", cfg.SecretsPath)
}

func TestStaticManager(t *testing.T) {
	m := StaticManager{"a": "1", "empty": ""}

	v, err := m.GetSecret(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	_, err = m.GetSecret(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrSecretNotFound)
	assert.Equal(t, "d", m.GetSecretWithDefault(context.Background(), "b", "d"))
}
