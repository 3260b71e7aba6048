package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jwksServer struct {
	*httptest.Server
	hits    atomic.Int32
	failing atomic.Bool
}

func newJWKSServer(t *testing.T, keys ...jwkset.JWKMarshal) *jwksServer {
	t.Helper()
	s := &jwksServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if s.failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwkset.JWKSMarshal{Keys: keys})
	}))
	t.Cleanup(s.Close)
	return s
}

func generateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func rsaJWK(t *testing.T, kid string, use jwkset.USE, key *rsa.PrivateKey) jwkset.JWKMarshal {
	t.Helper()
	jwk, err := jwkset.NewJWKFromKey(&key.PublicKey, jwkset.JWKOptions{
		Metadata: jwkset.JWKMetadataOptions{ALG: jwkset.AlgRS256, KID: kid, USE: use},
	})
	require.NoError(t, err)
	return jwk.Marshal()
}

func newTestKeySet(t *testing.T, url string, opts KeySetOptions) *KeySet {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	set, err := NewKeySet(ctx, url, opts)
	require.NoError(t, err)
	return set
}

func TestKeySetCachesKeys(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, rsaJWK(t, "k1", jwkset.UseSig, key))
	set := newTestKeySet(t, srv.URL, KeySetOptions{TTL: time.Hour, MinRefresh: 10 * time.Second})

	got, err := set.Key(context.Background(), "k1")
	require.NoError(t, err)
	pub, ok := got.(*rsa.PublicKey)
	require.True(t, ok)
	assert.True(t, key.PublicKey.Equal(pub))

	_, err = set.Key(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestKeySetUnknownKidRefreshIsRateLimited(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, rsaJWK(t, "k1", jwkset.UseSig, key))
	set := newTestKeySet(t, srv.URL, KeySetOptions{TTL: time.Hour, MinRefresh: time.Hour})

	_, err := set.Key(context.Background(), "other")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Equal(t, int32(2), srv.hits.Load())

	for i := 0; i < 5; i++ {
		_, err = set.Key(context.Background(), "other")
		assert.ErrorIs(t, err, ErrUnknownKey)
	}
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestKeySetOutageDoesNotBypassRateLimit(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, rsaJWK(t, "k1", jwkset.UseSig, key))
	set := newTestKeySet(t, srv.URL, KeySetOptions{TTL: time.Hour, MinRefresh: time.Hour})
	require.Equal(t, int32(1), srv.hits.Load())

	srv.failing.Store(true)
	for i := 0; i < 10; i++ {
		got, err := set.Key(context.Background(), "k1")
		require.NoError(t, err)
		assert.NotNil(t, got)

		_, err = set.Key(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrUnknownKey)
	}
	assert.LessOrEqual(t, srv.hits.Load(), int32(2))
}

func TestKeySetServesStaleKeyWhenRefreshFails(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, rsaJWK(t, "k1", jwkset.UseSig, key))
	set := newTestKeySet(t, srv.URL, KeySetOptions{TTL: 20 * time.Millisecond, MinRefresh: time.Hour})

	srv.failing.Store(true)
	require.Eventually(t, func() bool { return srv.hits.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)

	got, err := set.Key(context.Background(), "k1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestKeySetColdStartOutage(t *testing.T) {
	srv := newJWKSServer(t)
	srv.failing.Store(true)
	set := newTestKeySet(t, srv.URL, KeySetOptions{TTL: time.Hour, MinRefresh: time.Hour})

	for i := 0; i < 5; i++ {
		_, err := set.Key(context.Background(), "k1")
		assert.ErrorIs(t, err, ErrUnknownKey)
	}
	assert.LessOrEqual(t, srv.hits.Load(), int32(2))
}

func TestKeySetSkipsEncryptionKeys(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, rsaJWK(t, "enc1", jwkset.UseEnc, key))
	set := newTestKeySet(t, srv.URL, KeySetOptions{TTL: time.Hour, MinRefresh: time.Hour})

	_, err := set.Key(context.Background(), "enc1")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestKeySetConcurrentLookups(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, rsaJWK(t, "k1", jwkset.UseSig, key))
	set := newTestKeySet(t, srv.URL, KeySetOptions{TTL: time.Hour})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := set.Key(context.Background(), "k1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), srv.hits.Load())
}
