package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/casting-agency/casting-agency/internal/shared"
)

// Claims are the JWT claims issued by the identity provider. A nil
// Permissions slice means the claim was absent from the token.
type Claims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the request principal.
func (c *Claims) Principal() shared.Principal {
	perms := make([]string, len(c.Permissions))
	copy(perms, c.Permissions)
	return shared.Principal{Subject: c.Subject, Permissions: perms}
}

// CheckPermission ensures permission is listed in the token's permissions claim.
func CheckPermission(claims *Claims, permission string) error {
	if claims == nil || claims.Permissions == nil {
		return errPermissionsMissing()
	}
	for _, p := range claims.Permissions {
		if p == permission {
			return nil
		}
	}
	return errPermissionDenied()
}

type claimsContextKey struct{}

// ContextWithClaims stores verified claims in context.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns the claims stored by the authenticator.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return claims, ok && claims != nil
}
