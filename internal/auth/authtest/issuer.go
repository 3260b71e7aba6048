// Package authtest mints signed tokens for tests.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/golang-jwt/jwt/v5"

	"github.com/casting-agency/casting-agency/internal/auth"
)

// Defaults used by Issuer.
const (
	DefaultIssuer   = "https://casting.test/"
	DefaultAudience = "casting"
	DefaultKID      = "test-key"
)

// Issuer signs RS256 tokens with a throwaway key.
type Issuer struct {
	Key      *rsa.PrivateKey
	KID      string
	Issuer   string
	Audience string
	Subject  string
}

// NewIssuer generates a fresh RSA key.
func NewIssuer(t testing.TB) *Issuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return &Issuer{
		Key:      key,
		KID:      DefaultKID,
		Issuer:   DefaultIssuer,
		Audience: DefaultAudience,
		Subject:  "auth0|tester",
	}
}

// Keys returns a static key provider holding the public key.
func (i *Issuer) Keys() auth.StaticKeys {
	return auth.StaticKeys{i.KID: &i.Key.PublicKey}
}

// Verifier returns a verifier trusting this issuer.
func (i *Issuer) Verifier() *auth.Verifier {
	return auth.NewVerifier(i.Keys(), auth.VerifierConfig{
		Issuer:     i.Issuer,
		Audience:   i.Audience,
		Algorithms: []string{"RS256"},
	})
}

// Claims returns valid claims carrying perms, expiring in one hour.
func (i *Issuer) Claims(perms ...string) *auth.Claims {
	if perms == nil {
		perms = []string{}
	}
	now := time.Now()
	return &auth.Claims{
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.Issuer,
			Subject:   i.Subject,
			Audience:  jwt.ClaimStrings{i.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

// Sign signs arbitrary claims.
func (i *Issuer) Sign(t testing.TB, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = i.KID
	raw, err := token.SignedString(i.Key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

// Token signs a valid token carrying perms.
func (i *Issuer) Token(t testing.TB, perms ...string) string {
	t.Helper()
	return i.Sign(t, i.Claims(perms...))
}

// Bearer returns an Authorization header value for perms.
func (i *Issuer) Bearer(t testing.TB, perms ...string) string {
	t.Helper()
	return "Bearer " + i.Token(t, perms...)
}

// JWKS renders the public key set.
func (i *Issuer) JWKS(t testing.TB) jwkset.JWKSMarshal {
	t.Helper()
	jwk, err := jwkset.NewJWKFromKey(&i.Key.PublicKey, jwkset.JWKOptions{
		Metadata: jwkset.JWKMetadataOptions{
			ALG: jwkset.AlgRS256,
			KID: i.KID,
			USE: jwkset.UseSig,
		},
	})
	if err != nil {
		t.Fatalf("authtest: jwk: %v", err)
	}
	return jwkset.JWKSMarshal{Keys: []jwkset.JWKMarshal{jwk.Marshal()}}
}

// Server serves the JWKS document and closes with the test.
func (i *Issuer) Server(t testing.TB) *httptest.Server {
	t.Helper()
	set := i.JWKS(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(srv.Close)
	return srv
}
