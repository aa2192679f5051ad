package api

import (
	"context"

	"github.com/Chaeeun2/alolot/auth"
)

type keyType string

const claimsKey keyType = "claims"

// ctxWithClaims adds the verified token claims to the context
func ctxWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxGetSubject returns the subject of the verified token, if any.
func ctxGetSubject(ctx context.Context) string {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}
