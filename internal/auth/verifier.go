package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VerifierConfig carries the expected token issuer, audience and algorithms.
type VerifierConfig struct {
	Issuer     string
	Audience   string
	Algorithms []string
	Leeway     time.Duration
	Now        func() time.Time
}

// Verifier validates signed bearer tokens.
type Verifier struct {
	keys   KeyProvider
	parser *jwt.Parser
}

// NewVerifier constructs a Verifier resolving keys through keys.
func NewVerifier(keys KeyProvider, cfg VerifierConfig) *Verifier {
	algs := cfg.Algorithms
	if len(algs) == 0 {
		algs = []string{"RS256"}
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(algs),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if cfg.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(cfg.Now))
	}
	return &Verifier{keys: keys, parser: jwt.NewParser(opts...)}
}

// Verify checks the token signature and registered claims. Failures are
// returned as *Error, except key provider outages which are wrapped as-is.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	var providerErr error
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errInvalidHeader("Authorization malformed.")
		}
		key, err := v.keys.Key(ctx, kid)
		if errors.Is(err, ErrUnknownKey) {
			return nil, errInvalidHeader("Unable to find the appropriate key.")
		}
		if err != nil {
			providerErr = err
			return nil, err
		}
		return key, nil
	})
	if err == nil {
		return claims, nil
	}
	if providerErr != nil {
		return nil, fmt.Errorf("auth: resolve signing key: %w", providerErr)
	}
	return nil, classify(err)
}

func classify(err error) error {
	var authErr *Error
	switch {
	case errors.As(err, &authErr):
		return authErr
	case errors.Is(err, jwt.ErrTokenExpired):
		return errTokenExpired()
	case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return errInvalidClaims("Incorrect claims. Please, check the audience and issuer.")
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return errInvalidClaims("Token is missing a required claim.")
	default:
		return errInvalidHeader("Unable to parse authentication token.")
	}
}
