package identity

import (
	"context"

	"github.com/goliatone/go-router"
)

var accountCtxKey = &contextKey{"account"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithContext sets the Account in the given context.
func WithContext(r context.Context, account *Account) context.Context {
	return context.WithValue(r, accountCtxKey, account)
}

// FromContext finds the account from the context.
func FromContext(ctx context.Context) (*Account, bool) {
	raw, ok := ctx.Value(accountCtxKey).(*Account)
	return raw, ok
}

// WithClaimsContext sets the Claims in the given context.
func WithClaimsContext(r context.Context, claims *Claims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the Claims from the standard context.
func GetClaims(ctx context.Context) (*Claims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*Claims)
	return raw, ok
}

// GetRouterAccount extracts the Account a TokenGuard stored in the router
// context under key.
func GetRouterAccount(ctx router.Context, key string) (*Account, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	account, ok := raw.(*Account)
	return account, ok
}
