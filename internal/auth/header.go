package auth

import (
	"net/http"
	"strings"
)

// ExtractBearerToken returns the token from an "Authorization: Bearer <token>" header.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if strings.TrimSpace(header) == "" {
		return "", errHeaderMissing()
	}
	parts := strings.Fields(header)
	switch {
	case !strings.EqualFold(parts[0], "bearer"):
		return "", errInvalidHeader(`Authorization header must start with "Bearer".`)
	case len(parts) == 1:
		return "", errInvalidHeader("Token not found.")
	case len(parts) > 2:
		return "", errInvalidHeader("Authorization header must be bearer token.")
	}
	return parts[1], nil
}
