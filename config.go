package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultContextKey is where middleware stores the authenticated account in
// the router context.
const DefaultContextKey = "account"

// DefaultTokenTTL matches the lifetime of a login session token.
var DefaultTokenTTL = 30 * time.Minute

// SimpleConfig is a plain-struct Config implementation with sensible
// defaults for everything but the signing key.
type SimpleConfig struct {
	SigningKey    string
	SigningMethod string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	ContextKey    string
	TokenLookup   string
	AuthScheme    string
	Issuer        string
	Audience      []string
}

// NewConfig builds a SimpleConfig around a signing key with the default
// HS256 setup.
func NewConfig(signingKey string) *SimpleConfig {
	return &SimpleConfig{
		SigningKey:    signingKey,
		SigningMethod: "HS256",
		TokenTTL:      DefaultTokenTTL,
		ResetTokenTTL: DefaultResetTokenTTL,
		ContextKey:    DefaultContextKey,
		TokenLookup:   "header:Authorization",
		AuthScheme:    "Bearer",
	}
}

func (c *SimpleConfig) GetSigningKey() string    { return c.SigningKey }
func (c *SimpleConfig) GetSigningMethod() string { return c.SigningMethod }

func (c *SimpleConfig) GetTokenTTL() time.Duration {
	if c.TokenTTL <= 0 {
		return DefaultTokenTTL
	}
	return c.TokenTTL
}

func (c *SimpleConfig) GetResetTokenTTL() time.Duration {
	if c.ResetTokenTTL <= 0 {
		return DefaultResetTokenTTL
	}
	return c.ResetTokenTTL
}

func (c *SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return DefaultContextKey
	}
	return c.ContextKey
}

func (c *SimpleConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "header:Authorization"
	}
	return c.TokenLookup
}

func (c *SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

func (c *SimpleConfig) GetIssuer() string     { return c.Issuer }
func (c *SimpleConfig) GetAudience() []string { return c.Audience }

// NewTokenServiceFromConfig builds a TokenService from a Config. The service
// only signs and verifies with HMAC-SHA256; a config asking for any other
// method is a programming error and panics. An empty method means the
// default.
func NewTokenServiceFromConfig(cfg Config, logger Logger) *TokenService {
	if method := cfg.GetSigningMethod(); method != "" && method != jwt.SigningMethodHS256.Alg() {
		panic("IDENTITY: unsupported signing method " + method + ", only " + jwt.SigningMethodHS256.Alg() + " is supported")
	}
	return NewTokenService([]byte(cfg.GetSigningKey()), cfg.GetIssuer(), cfg.GetAudience(), logger)
}

// NewAuthenticatorFromConfig wires a credential verifier and account finder
// into an Auther whose tokens follow the Config's signing setup and TTL.
func NewAuthenticatorFromConfig(cfg Config, verifier CredentialVerifier, finder AccountFinder, logger Logger) *Auther {
	tokens := NewTokenServiceFromConfig(cfg, logger)
	auther := NewAuthenticator(verifier, finder, tokens, cfg.GetTokenTTL())
	if logger != nil {
		auther = auther.WithLogger(logger)
	}
	return auther
}

// GuardConfigFrom maps a Config onto the middleware guard options.
func GuardConfigFrom(cfg Config, resolver *Auther) GuardConfig {
	return GuardConfig{
		Resolver:    resolver,
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
		AuthScheme:  cfg.GetAuthScheme(),
	}
}
