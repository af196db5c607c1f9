package authz

import (
	"context"
	"fmt"
)

// Principal is the authenticated user attached to a request.
type Principal struct {
	ID       int64
	Username string
	IsAdmin  bool
}

// String returns a short form for audit logs.
func (p Principal) String() string {
	if p.IsAdmin {
		return fmt.Sprintf("admin:%d", p.ID)
	}
	return fmt.Sprintf("user:%d", p.ID)
}

// principalKey is an unexported key type to prevent external forgery.
type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the request principal, or nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok {
		return nil
	}
	return &p
}
