package identity

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeEmailTaken         = "EMAIL_TAKEN"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeInvalidToken       = "INVALID_TOKEN"
	TextCodeInvalidResetToken  = "INVALID_RESET_TOKEN"
	TextCodePasswordMismatch   = "PASSWORD_MISMATCH"
	TextCodeForbidden          = "ADMIN_REQUIRED"
	TextCodeTooManyAttempts    = "TOO_MANY_LOGIN_ATTEMPTS"
)

// ErrEmailTaken is returned by signup when the normalized email already has
// an account.
var ErrEmailTaken = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(goerrors.CodeConflict)

// ErrInvalidCredentials deliberately conflates "no such account" and "wrong
// password" so login cannot be used to probe which emails exist.
var ErrInvalidCredentials = goerrors.New("incorrect email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenInvalid is the uniform rejection for every bearer-token failure:
// missing, malformed, tampered, expired, or an unknown subject. The internal
// cause is logged, never returned.
var ErrTokenInvalid = goerrors.New("could not validate credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrForbidden is returned when a valid principal lacks the admin role. It is
// distinct from ErrTokenInvalid since the caller is already authenticated.
var ErrForbidden = goerrors.New("operation forbidden: not enough privileges", goerrors.CategoryAuth).
	WithTextCode(TextCodeForbidden).
	WithCode(goerrors.CodeForbidden)

// ErrResetTokenInvalid is safe to surface: the token itself is the secret,
// not the account it belongs to.
var ErrResetTokenInvalid = goerrors.New("invalid or expired password reset token", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidResetToken).
	WithCode(goerrors.CodeBadRequest)

// ErrPasswordMismatch is returned by password change and account deletion
// when the current password fails re-verification.
var ErrPasswordMismatch = goerrors.New("current password does not match", goerrors.CategoryAuth).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(goerrors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned while an account is cooling down after
// repeated failed logins.
var ErrTooManyLoginAttempts = goerrors.New("too many login attempts", goerrors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrMismatchedHashAndPassword is the low-level verification failure from the
// credential hasher.
var ErrMismatchedHashAndPassword = goerrors.New("mismatched hash and password", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest)

// IsUniqueViolation reports whether a driver error represents a unique
// constraint failure. Covers the sqlite and postgres dialects the migrations
// target.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
