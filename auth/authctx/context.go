// Package authctx carries verified claims through a request context.
package authctx

import (
	"context"

	"github.com/zillusion/capsule/auth/jwt"
)

type contextKey struct{}

// Set stores claims in ctx.
func Set(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// Get returns the claims stored by Set.
func Get(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}

// UserID returns the subject of the stored claims, or "".
func UserID(ctx context.Context) string {
	if claims, ok := Get(ctx); ok {
		return claims.Subject
	}
	return ""
}
