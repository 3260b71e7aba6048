package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/casting-agency/casting-agency/internal/platform/httpx"
	"github.com/casting-agency/casting-agency/internal/shared"
)

// TokenVerifier verifies a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*Claims, error)
}

// Authenticator turns request headers into verified claims.
type Authenticator struct {
	Verifier TokenVerifier
	Logger   *slog.Logger
}

// Authenticate extracts and verifies the bearer token of r.
func (a Authenticator) Authenticate(r *http.Request) (*Claims, error) {
	raw, err := ExtractBearerToken(r)
	if err != nil {
		return nil, err
	}
	return a.Verifier.Verify(r.Context(), raw)
}

// Require authenticates the request and checks every permission before
// calling next. Verified claims are available through ClaimsFromContext.
func (a Authenticator) Require(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.Authenticate(r)
			if err == nil {
				for _, perm := range permissions {
					if err = CheckPermission(claims, perm); err != nil {
						break
					}
				}
			}
			if err != nil {
				a.reject(w, r, err)
				return
			}
			ctx := ContextWithClaims(r.Context(), claims)
			ctx = shared.ContextWithPrincipal(ctx, claims.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a Authenticator) reject(w http.ResponseWriter, r *http.Request, err error) {
	if a.Logger != nil {
		status := httpx.StatusOf(err)
		level := slog.LevelDebug
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		a.Logger.Log(r.Context(), level, "auth rejected request",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
