package shared

import "context"

// Principal is the authenticated identity decoded from an access token.
// IDs are scoped per role: patient 7 and doctor 7 are distinct principals.
type Principal struct {
	ID   int64
	Role Role
}

type principalContextKey struct{}

// ContextWithPrincipal stores the authenticated principal in context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal set by the authorization guard.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
