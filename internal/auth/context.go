package auth

import "context"

type principalContextKey struct{}

// ContextWithPrincipal stores the authenticated principal in context.
func ContextWithPrincipal(ctx context.Context, user *AuthenticatedUser) context.Context {
	return context.WithValue(ctx, principalContextKey{}, user)
}

// PrincipalFromContext extracts the authenticated principal from context.
// It returns nil for unauthenticated requests.
func PrincipalFromContext(ctx context.Context) *AuthenticatedUser {
	user, _ := ctx.Value(principalContextKey{}).(*AuthenticatedUser)
	return user
}
