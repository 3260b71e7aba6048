package rbac

import (
	"net/http"
	"strings"

	"log/slog"

	"github.com/casting-agency/casting-agency/internal/auth"
	"github.com/casting-agency/casting-agency/internal/platform/httpx"
	"github.com/casting-agency/casting-agency/internal/shared"
)

// Middleware wires RBAC authorization helpers for HTTP handlers.
type Middleware struct {
	Authenticator auth.Authenticator
	Logger        *slog.Logger
}

// NewMiddleware builds a Middleware around verifier.
func NewMiddleware(verifier auth.TokenVerifier, logger *slog.Logger) Middleware {
	return Middleware{
		Authenticator: auth.Authenticator{Verifier: verifier, Logger: logger},
		Logger:        logger,
	}
}

// RequireAll ensures the bearer token grants all required permissions.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	return m.Authenticator.Require(normalizePermissions(perms)...)
}

// RequireAny ensures the bearer token grants at least one of the required permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.Authenticator.Authenticate(r)
			if err == nil && len(normalized) > 0 {
				err = auth.CheckPermission(claims, normalized[0])
				for _, p := range normalized[1:] {
					if err == nil {
						break
					}
					err = auth.CheckPermission(claims, p)
				}
			}
			if err != nil {
				if m.Logger != nil {
					m.Logger.Debug("rbac require any", slog.String("path", r.URL.Path), slog.Any("error", err))
				}
				httpx.RespondError(w, err)
				return
			}
			ctx := auth.ContextWithClaims(r.Context(), claims)
			ctx = shared.ContextWithPrincipal(ctx, claims.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func normalizePermissions(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	normalized := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		normalized = append(normalized, p)
	}
	return normalized
}
