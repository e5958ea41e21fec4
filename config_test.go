package identity_test

import (
	"context"
	"testing"
	"time"

	identity "github.com/markavo/go-identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := identity.NewConfig("secret")

	assert.Equal(t, "secret", cfg.GetSigningKey())
	assert.Equal(t, "HS256", cfg.GetSigningMethod())
	assert.Equal(t, 30*time.Minute, cfg.GetTokenTTL())
	assert.Equal(t, time.Hour, cfg.GetResetTokenTTL())
	assert.Equal(t, identity.DefaultContextKey, cfg.GetContextKey())
	assert.Equal(t, "header:Authorization", cfg.GetTokenLookup())
	assert.Equal(t, "Bearer", cfg.GetAuthScheme())
}

func TestSimpleConfigZeroValuesFallBack(t *testing.T) {
	cfg := &identity.SimpleConfig{SigningKey: "secret"}

	assert.Equal(t, 30*time.Minute, cfg.GetTokenTTL())
	assert.Equal(t, time.Hour, cfg.GetResetTokenTTL())
	assert.Equal(t, identity.DefaultContextKey, cfg.GetContextKey())
	assert.Equal(t, "Bearer", cfg.GetAuthScheme())
}

func TestNewTokenServiceFromConfigSigningMethod(t *testing.T) {
	// HS256 and the empty default build fine.
	assert.NotPanics(t, func() {
		identity.NewTokenServiceFromConfig(identity.NewConfig("secret"), nil)
	})
	assert.NotPanics(t, func() {
		identity.NewTokenServiceFromConfig(&identity.SimpleConfig{SigningKey: "secret"}, nil)
	})

	// Anything else is rejected at construction, not at sign time.
	assert.Panics(t, func() {
		identity.NewTokenServiceFromConfig(&identity.SimpleConfig{
			SigningKey:    "secret",
			SigningMethod: "RS256",
		}, nil)
	})
}

func TestNewAuthenticatorFromConfig(t *testing.T) {
	account := testAccount("ada@gmail.com", "Sup3r$ecret")
	store := newMemStore(account)
	cfg := identity.NewConfig("config-driven-secret")

	auther := identity.NewAuthenticatorFromConfig(cfg, identity.NewAccountProvider(store), store, nil)

	token, err := auther.Login(context.Background(), "ada@gmail.com", "Sup3r$ecret")
	require.NoError(t, err)

	got, err := auther.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
}
