package identity

import (
	"errors"
	"strings"

	"github.com/goliatone/go-router"
)

var defaultTokenLookup = "header:" + router.HeaderAuthorization

// ErrTokenMissing is returned by extractors when no token is presented.
// Externally it collapses into the same response as an invalid token.
var ErrTokenMissing = errors.New("missing or malformed bearer token")

// GuardConfig configures TokenGuard and AdminGuard.
type GuardConfig struct {
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler
	// Resolver authenticates the raw token and loads the account.
	Resolver *Auther
	// ContextKey is where the account is stored in the router context.
	ContextKey  string
	TokenLookup string
	AuthScheme  string
}

func guardDefaults(config ...GuardConfig) (cfg GuardConfig) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Resolver == nil {
		panic("IDENTITY: guard configuration: Resolver is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			// One message for every authentication failure: absent,
			// malformed, tampered, expired, and unknown-subject tokens are
			// indistinguishable from outside.
			return c.Status(router.StatusUnauthorized).SendString("could not validate credentials")
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// TokenGuard authenticates each request from its bearer token and stores the
// resolved account in the router context under cfg.ContextKey, and in the
// standard context for downstream code that only sees context.Context.
func TokenGuard(config ...GuardConfig) router.MiddlewareFunc {
	cfg := guardDefaults(config...)
	extractors := tokenExtractors(cfg.TokenLookup, cfg.AuthScheme)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := extractRawToken(ctx, extractors)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			account, err := cfg.Resolver.Authenticate(ctx.Context(), raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, account)
			ctx.SetContext(WithContext(ctx.Context(), account))

			return cfg.SuccessHandler(ctx)
		}
	}
}

// AdminGuard rejects authenticated non-admin accounts with a 403. It expects
// to run after TokenGuard; a request with no account in context gets the
// uniform 401 instead.
func AdminGuard(config ...GuardConfig) router.MiddlewareFunc {
	cfg := guardDefaults(config...)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			account, ok := GetRouterAccount(ctx, cfg.ContextKey)
			if !ok {
				return cfg.ErrorHandler(ctx, ErrTokenInvalid)
			}

			if _, err := cfg.Resolver.RequireAdmin(account); err != nil {
				return ctx.Status(router.StatusForbidden).SendString("operation forbidden: not enough privileges")
			}

			return ctx.Next()
		}
	}
}

func extractRawToken(ctx router.Context, extractors []tokenExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

type tokenExtractor func(c router.Context) (string, error)

// tokenExtractors parses a lookup string in the form
// "header:Authorization,cookie:jwt,query:auth_token,param:token".
func tokenExtractors(tokenLookup, authScheme string) []tokenExtractor {
	extractors := make([]tokenExtractor, 0)

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, tokenFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

func tokenFromHeader(header string, authScheme string) tokenExtractor {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		scheme := strings.TrimSpace(authScheme)
		l := len(scheme)
		if l == 0 {
			return "", ErrTokenMissing
		}
		if len(a) > l+1 && strings.EqualFold(a[:l], scheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrTokenMissing
	}
}

func tokenFromQuery(param string) tokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}

func tokenFromParam(param string) tokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Param(param)
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}

func tokenFromCookie(name string) tokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}
