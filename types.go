package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// AccountStore is the persistence boundary for account records. Reads are
// idempotent; writes are atomic per record.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	// FindByResetToken only matches tokens whose expiry is still in the
	// future; an expired-but-uncleared token behaves like an absent one.
	FindByResetToken(ctx context.Context, token string) (*Account, error)
	Insert(ctx context.Context, account *Account) (*Account, error)
	UpdateFields(ctx context.Context, id uuid.UUID, patch AccountPatch) (*Account, error)
	// DeleteCascade removes records owned by the account in dependent
	// collections, then the account itself. Returns false when the account
	// did not exist.
	DeleteCascade(ctx context.Context, id uuid.UUID) (bool, error)
}

// CredentialStore is the slice of AccountStore the credential verifier needs,
// plus login attempt bookkeeping.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	TrackAttemptedLogin(ctx context.Context, account *Account) error
	TrackSuccessfulLogin(ctx context.Context, account *Account) error
}

// CredentialVerifier resolves an email/password pair to an account.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, email, password string) (*Account, error)
}

// TokenIssuer mints signed bearer tokens.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

// TokenValidator validates raw tokens and extracts claims without tying
// callers to a specific signing implementation.
type TokenValidator interface {
	Validate(raw string) (*Claims, error)
}

// NotificationSink receives out-of-band password reset notifications. Calls
// are fire-and-forget; errors are logged, never surfaced to the requester.
type NotificationSink interface {
	NotifyPasswordReset(ctx context.Context, email, displayName, token string) error
}

// Config holds process-wide options, read once at startup.
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetTokenTTL() time.Duration
	GetResetTokenTTL() time.Duration
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] IDENTITY "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] IDENTITY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] IDENTITY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] IDENTITY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
