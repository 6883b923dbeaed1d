package auth

import "context"

// Principal is the authenticated caller attached to a request context by the
// authorization middleware.
type Principal struct {
	IdentityID string
	Email      string
	TenantID   string
}

type principalKey struct{}

// WithPrincipal returns a child context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal set by the authorization middleware.
// The second return is false on contexts that never passed the gate.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
