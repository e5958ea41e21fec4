package identity_test

import (
	"context"
	"testing"
	"time"

	identity "github.com/markavo/go-identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyCredentials(t *testing.T) {
	account := testAccount("ada@gmail.com", "Sup3r$ecret")
	store := newMemStore(account)
	provider := identity.NewAccountProvider(store)

	got, err := provider.VerifyCredentials(context.Background(), "ada@gmail.com", "Sup3r$ecret")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
	assert.Equal(t, 1, store.successfulLogins)

	// successful login clears the attempt counter
	assert.Equal(t, 0, store.get(account.ID).LoginAttempts)
}

func TestVerifyCredentialsNormalizesEmail(t *testing.T) {
	account := testAccount("ada@gmail.com", "Sup3r$ecret")
	store := newMemStore(account)
	provider := identity.NewAccountProvider(store)

	got, err := provider.VerifyCredentials(context.Background(), "  ADA@Gmail.com ", "Sup3r$ecret")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
}

func TestVerifyCredentialsUniformFailure(t *testing.T) {
	account := testAccount("ada@gmail.com", "Sup3r$ecret")
	store := newMemStore(account)
	provider := identity.NewAccountProvider(store)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"Wrong password", "ada@gmail.com", "wrongPassword1!"},
		{"Unknown email", "nobody@gmail.com", "Sup3r$ecret"},
		{"Both wrong", "nobody@gmail.com", "wrongPassword1!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := provider.VerifyCredentials(context.Background(), tt.email, tt.password)
			assert.Nil(t, got)
			// same error whether the email or the password was wrong
			assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
		})
	}
}

func TestVerifyCredentialsTracksFailedAttempts(t *testing.T) {
	account := testAccount("ada@gmail.com", "Sup3r$ecret")
	store := newMemStore(account)
	provider := identity.NewAccountProvider(store)

	_, err := provider.VerifyCredentials(context.Background(), "ada@gmail.com", "wrongPassword1!")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	assert.Equal(t, 1, store.attemptedLogins)
	assert.Equal(t, 1, store.get(account.ID).LoginAttempts)
}

func TestVerifyCredentialsLockoutAfterTooManyAttempts(t *testing.T) {
	account := testAccount("ada@gmail.com", "Sup3r$ecret")
	now := time.Now()
	account.LoginAttempts = identity.MaxLoginAttempts + 1
	account.LoginAttemptAt = &now

	store := newMemStore(account)
	provider := identity.NewAccountProvider(store)

	// even the correct password is rejected while cooling down
	_, err := provider.VerifyCredentials(context.Background(), "ada@gmail.com", "Sup3r$ecret")
	assert.ErrorIs(t, err, identity.ErrTooManyLoginAttempts)
}

func TestVerifyCredentialsCooldownExpires(t *testing.T) {
	account := testAccount("ada@gmail.com", "Sup3r$ecret")
	stale := time.Now().Add(-25 * time.Hour)
	account.LoginAttempts = identity.MaxLoginAttempts + 1
	account.LoginAttemptAt = &stale

	store := newMemStore(account)
	provider := identity.NewAccountProvider(store)

	got, err := provider.VerifyCredentials(context.Background(), "ada@gmail.com", "Sup3r$ecret")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
}
