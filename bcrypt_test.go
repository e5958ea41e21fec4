package identity_test

import (
	"testing"

	identity "github.com/markavo/go-identity"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := identity.HashPassword(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)

			err = identity.ComparePasswordAndHash(tt.password, hash)
			assert.NoError(t, err)
		})
	}
}

func TestComparePasswordAndHash(t *testing.T) {
	password := "testPassword123!"
	hash, err := identity.HashPassword(password)
	assert.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  error
	}{
		{
			name:     "Matching password",
			password: password,
			hash:     hash,
		},
		{
			name:     "Wrong password",
			password: "notThePassword1!",
			hash:     hash,
			wantErr:  identity.ErrMismatchedHashAndPassword,
		},
		{
			name:     "Garbage hash",
			password: password,
			hash:     "not-a-bcrypt-hash",
			wantErr:  assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := identity.ComparePasswordAndHash(tt.password, tt.hash)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			if tt.wantErr == identity.ErrMismatchedHashAndPassword {
				assert.ErrorIs(t, err, identity.ErrMismatchedHashAndPassword)
			}
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	hash := mustHash("Sup3r$ecret")

	assert.True(t, identity.VerifyPassword("Sup3r$ecret", hash))
	assert.False(t, identity.VerifyPassword("sup3r$ecret", hash))
	assert.False(t, identity.VerifyPassword("", hash))
}

func TestHashPasswordProducesDistinctHashes(t *testing.T) {
	a, err := identity.HashPassword("Sup3r$ecret")
	assert.NoError(t, err)

	b, err := identity.HashPassword("Sup3r$ecret")
	assert.NoError(t, err)

	// bcrypt salts per call
	assert.NotEqual(t, a, b)
}
