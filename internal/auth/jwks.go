package auth

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"golang.org/x/time/rate"
)

// KeySetOptions tunes a KeySet.
type KeySetOptions struct {
	// TTL is the background refresh interval.
	TTL time.Duration
	// MinRefresh bounds how often an unknown kid may trigger a refresh.
	MinRefresh time.Duration
	// Timeout caps a single JWKS request and the wait for the refresh limiter.
	Timeout time.Duration
	Client  *http.Client
	Logger  *slog.Logger
}

// KeySet is a KeyProvider backed by a remote JWKS document. Keys are
// refreshed in the background every TTL and a failed refresh keeps the
// previous keys. An unknown kid triggers at most one refresh per MinRefresh.
type KeySet struct {
	storage jwkset.Storage
	logger  *slog.Logger
}

// NewKeySet fetches the JWKS at url and keeps it fresh until ctx is done.
// A failed first fetch is logged, not returned.
func NewKeySet(ctx context.Context, url string, opts KeySetOptions) (*KeySet, error) {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Minute
	}
	if opts.MinRefresh <= 0 {
		opts.MinRefresh = 30 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger.With(slog.String("jwks_url", url))

	kf, err := keyfunc.NewDefaultOverrideCtx(ctx, []string{url}, keyfunc.Override{
		Client:           opts.Client,
		HTTPTimeout:      opts.Timeout,
		RateLimitWaitMax: opts.Timeout,
		RefreshErrorHandlerFunc: func(string) func(context.Context, error) {
			return func(ctx context.Context, err error) {
				logger.WarnContext(ctx, "jwks refresh failed", slog.Any("error", err))
			}
		},
		RefreshInterval:   opts.TTL,
		RefreshUnknownKID: rate.NewLimiter(rate.Every(opts.MinRefresh), 1),
	})
	if err != nil {
		return nil, fmt.Errorf("auth: jwks client: %w", err)
	}
	return &KeySet{storage: kf.Storage(), logger: logger}, nil
}

// Key implements KeyProvider.
func (s *KeySet) Key(ctx context.Context, kid string) (any, error) {
	jwk, err := s.storage.KeyRead(ctx, kid)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, jwkset.ErrKeyNotFound) {
			s.logger.DebugContext(ctx, "jwks refresh skipped", slog.String("kid", kid), slog.Any("error", err))
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownKey, kid)
	}
	if use := jwk.Marshal().USE; use != "" && use != jwkset.UseSig {
		return nil, fmt.Errorf("%w %q: use %q", ErrUnknownKey, kid, use)
	}
	key := jwk.Key()
	if priv, ok := key.(interface{ Public() crypto.PublicKey }); ok {
		key = priv.Public()
	}
	return key, nil
}
