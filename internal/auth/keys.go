package auth

import (
	"context"
	"errors"
)

// ErrUnknownKey is returned when no key matches the token's kid.
var ErrUnknownKey = errors.New("auth: unknown key id")

// KeyProvider resolves verification keys by key id.
type KeyProvider interface {
	Key(ctx context.Context, kid string) (any, error)
}

// StaticKeys is a fixed key set, keyed by kid.
type StaticKeys map[string]any

// Key implements KeyProvider.
func (s StaticKeys) Key(_ context.Context, kid string) (any, error) {
	key, ok := s[kid]
	if !ok {
		return nil, ErrUnknownKey
	}
	return key, nil
}
