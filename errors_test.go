package identity_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	identity "github.com/markavo/go-identity"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category goerrors.Category
		code     any
	}{
		{"Email taken", identity.ErrEmailTaken, goerrors.CategoryConflict, goerrors.CodeConflict},
		{"Invalid credentials", identity.ErrInvalidCredentials, goerrors.CategoryAuth, goerrors.CodeUnauthorized},
		{"Invalid token", identity.ErrTokenInvalid, goerrors.CategoryAuth, goerrors.CodeUnauthorized},
		{"Forbidden", identity.ErrForbidden, goerrors.CategoryAuth, goerrors.CodeForbidden},
		{"Invalid reset token", identity.ErrResetTokenInvalid, goerrors.CategoryValidation, goerrors.CodeBadRequest},
		{"Password mismatch", identity.ErrPasswordMismatch, goerrors.CategoryAuth, goerrors.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rich *goerrors.Error
			assert.True(t, goerrors.As(tt.err, &rich))
			assert.Equal(t, tt.category, rich.Category)
			assert.EqualValues(t, tt.code, rich.Code)
		})
	}
}

func TestCredentialErrorsShareNoDetail(t *testing.T) {
	// the two login failure modes must be the same value, not just the
	// same message
	_, unknownEmailErr := identity.NewAccountProvider(newMemStore()).
		VerifyCredentials(context.Background(), "ghost@gmail.com", "anything1$A")
	assert.ErrorIs(t, unknownEmailErr, identity.ErrInvalidCredentials)
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"Sqlite unique violation", errors.New("UNIQUE constraint failed: accounts.email"), true},
		{"Postgres unique violation", fmt.Errorf(`ERROR: duplicate key value violates unique constraint "idx_accounts_email"`), true},
		{"Unrelated error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identity.IsUniqueViolation(tt.err))
		})
	}
}
