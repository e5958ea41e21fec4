package identity

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// MaxLoginAttempts is the number of failed logins an account gets before it
// cools down.
var MaxLoginAttempts = 5

// CoolDownPeriod is the window in which the attempt counter applies.
var CoolDownPeriod = 24 * time.Hour

// AccountProvider verifies email/password pairs against the account store.
type AccountProvider struct {
	store  CredentialStore
	logger Logger
}

var _ CredentialVerifier = (*AccountProvider)(nil)

func NewAccountProvider(store CredentialStore) *AccountProvider {
	return &AccountProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (p *AccountProvider) WithLogger(l Logger) *AccountProvider {
	if l != nil {
		p.logger = l
	}
	return p
}

// VerifyCredentials resolves an email/password pair to an account. A missing
// account and a wrong password return the identical ErrInvalidCredentials;
// nothing in the result or its shape reveals which factor failed.
func (p *AccountProvider) VerifyCredentials(ctx context.Context, email, password string) (*Account, error) {
	account, err := p.store.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if goerrors.IsNotFound(err) {
			// Burn a comparison so a missing account costs the same as a
			// wrong password.
			ComparePasswordAndHash(password, decoyHash())
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account during verification")
	}

	if account.LoginAttemptAt != nil && IsOutsideThresholdPeriod(*account.LoginAttemptAt, CoolDownPeriod) {
		account.LoginAttempts = 0
	}

	if account.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		if err2 := p.store.TrackAttemptedLogin(ctx, account); err2 != nil {
			p.logger.Warn("failed to track login attempt: %v", err2)
		}
		return nil, ErrInvalidCredentials
	}

	if err := p.store.TrackSuccessfulLogin(ctx, account); err != nil {
		p.logger.Warn("failed to track successful login: %v", err)
	}

	return account, nil
}

var (
	decoyOnce sync.Once
	decoy     string
)

// decoyHash is a process-local bcrypt hash of a random value, used to keep
// verification cost flat when the email does not resolve.
func decoyHash() string {
	decoyOnce.Do(func() {
		h, err := HashPassword(uuid.NewString())
		if err != nil {
			// bcrypt only fails on cost bounds; fall back to a canned hash
			// of the same shape.
			h = "$2a$12$C6UzMDM.H6dfI/f/IKcEeO7ZfUqDvLyS3n6FQZ4dEpUdQ9n3FSW7a"
		}
		decoy = h
	})
	return decoy
}
