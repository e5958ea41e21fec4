package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenService mints and validates the stateless bearer tokens this package
// issues. It satisfies both TokenIssuer and TokenValidator.
type TokenService struct {
	signingKey []byte
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
}

var (
	_ TokenIssuer    = (*TokenService)(nil)
	_ TokenValidator = (*TokenService)(nil)
)

// NewTokenService creates a token service bound to a single process-wide
// secret. Rotating the secret invalidates every outstanding token; there is
// no grace-period key list.
func NewTokenService(signingKey []byte, issuer string, audience []string, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}

	var aud jwt.ClaimStrings
	if len(audience) > 0 {
		aud = make(jwt.ClaimStrings, len(audience))
		copy(aud, audience)
	}

	return &TokenService{
		signingKey: signingKey,
		issuer:     issuer,
		audience:   aud,
		logger:     logger,
	}
}

// Issue produces a signed token embedding subject, issued_at=now and
// expires_at=now+ttl.
func (ts *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", goerrors.New("token subject must not be empty", goerrors.CategoryValidation)
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign bearer token")
	}

	return signed, nil
}

// Validate verifies signature integrity and expiry. Every failure collapses
// to the same ErrTokenInvalid so holders of bad tokens cannot tell expired
// from tampered from malformed; the distinction only reaches the logs.
func (ts *TokenService) Validate(raw string) (*Claims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		switch {
		case goerrors.Is(err, jwt.ErrTokenExpired):
			ts.logger.Debug("token validation failed: expired")
		case goerrors.Is(err, jwt.ErrTokenMalformed):
			ts.logger.Debug("token validation failed: malformed")
		default:
			ts.logger.Debug("token validation failed: %v", err)
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		ts.logger.Debug("token validation failed: could not decode claims")
		return nil, ErrTokenInvalid
	}

	if claims.Subject() == "" {
		ts.logger.Debug("token validation failed: missing subject")
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
