package distributor

import (
	"testing"

	"github.com/catalogsync/backend/internal/domain/provider"
	"github.com/catalogsync/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullProvidersConfig() *config.ProvidersConfig {
	return &config.ProvidersConfig{
		NOD:    config.NODConfig{APIUser: "user", APIKey: "key"},
		Elko:   config.ElkoConfig{Token: "jwt"},
		Ingram: config.IngramConfig{APIKey: "key"},
		ALSO:   config.ALSOConfig{Host: "sftp.example.test", Username: "u", Password: "p"},
	}
}

func TestRegistry_Keys(t *testing.T) {
	registry := NewRegistry(fullProvidersConfig())
	assert.Equal(t, []string{"also", "elko", "ingram", "nod"}, registry.Keys())
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry(fullProvidersConfig())

	for _, key := range registry.Keys() {
		t.Run(key, func(t *testing.T) {
			adapter, err := registry.Get(key)
			require.NoError(t, err)
			assert.Equal(t, key, adapter.Key())
		})
	}
}

func TestRegistry_Get_FreshInstancePerCall(t *testing.T) {
	registry := NewRegistry(fullProvidersConfig())

	first, err := registry.Get("nod")
	require.NoError(t, err)
	second, err := registry.Get("nod")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestRegistry_Get_UnknownKey(t *testing.T) {
	registry := NewRegistry(fullProvidersConfig())

	_, err := registry.Get("unknown")
	assert.ErrorIs(t, err, provider.ErrAdapterNotRegistered)
}

func TestRegistry_Get_MissingCredentials(t *testing.T) {
	registry := NewRegistry(&config.ProvidersConfig{})

	for _, key := range registry.Keys() {
		t.Run(key, func(t *testing.T) {
			_, err := registry.Get(key)
			assert.ErrorIs(t, err, provider.ErrMissingCredential)
		})
	}
}
