package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// AccountFinder resolves token subjects back to accounts.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// Auther orchestrates login and the request-scoped authorization gates.
// Each request moves Unauthenticated -> TokenPresented -> Authenticated or
// Rejected; a further gate takes Authenticated -> AdminAuthorized.
type Auther struct {
	verifier  CredentialVerifier
	finder    AccountFinder
	issuer    TokenIssuer
	validator TokenValidator
	tokenTTL  time.Duration
	logger    Logger
}

func NewAuthenticator(verifier CredentialVerifier, finder AccountFinder, tokens *TokenService, tokenTTL time.Duration) *Auther {
	return &Auther{
		verifier:  verifier,
		finder:    finder,
		issuer:    tokens,
		validator: tokens,
		tokenTTL:  tokenTTL,
		logger:    defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenValidator sets a custom validator for externally issued tokens.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	if validator != nil {
		s.validator = validator
	}
	return s
}

// Login verifies the credentials and issues a bearer token whose subject is
// the account's current email.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.verifier.VerifyCredentials(ctx, email, password)
	if err != nil {
		s.logger.Debug("login rejected for %s: %v", NormalizeEmail(email), err)
		return "", err
	}

	token, err := s.issuer.Issue(account.Email, s.tokenTTL)
	if err != nil {
		s.logger.Error("login token issuance failed: %v", err)
		return "", err
	}

	return token, nil
}

// Authenticate resolves a raw bearer token to the account behind its
// subject. Missing, malformed, tampered, and expired tokens, and subjects
// that no longer match an account, all produce the same ErrTokenInvalid.
func (s *Auther) Authenticate(ctx context.Context, raw string) (*Account, error) {
	if raw == "" {
		return nil, ErrTokenInvalid
	}

	claims, err := s.validator.Validate(raw)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	account, err := s.finder.FindByEmail(ctx, claims.Subject())
	if err != nil {
		if goerrors.IsNotFound(err) {
			s.logger.Debug("token subject %s does not resolve to an account", claims.Subject())
			return nil, ErrTokenInvalid
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve token subject")
	}

	return account, nil
}

// RequireAdmin gates an already authenticated account by role. The failure
// here is deliberately distinct from authentication failure: the caller is a
// known principal that lacks privilege.
func (s *Auther) RequireAdmin(account *Account) (*Account, error) {
	if account == nil {
		return nil, ErrTokenInvalid
	}

	if !account.IsAdmin {
		return nil, ErrForbidden
	}

	return account, nil
}

// ClaimsFromToken validates a raw token and returns its claims without
// touching the store. Middleware uses Authenticate instead; this is for
// callers that only need the subject.
func (s *Auther) ClaimsFromToken(raw string) (*Claims, error) {
	return s.validator.Validate(raw)
}
