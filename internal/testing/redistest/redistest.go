// Package redistest starts in-memory Redis servers for tests.
package redistest

import (
	"context"
	"slices"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// New returns a client bound to a miniredis server private to t.
func New(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

// FailCommands makes client return err for every command in names.
func FailCommands(client *redis.Client, err error, names ...string) {
	client.AddHook(failHook{err: err, names: names})
}

type failHook struct {
	err   error
	names []string
}

func (h failHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h failHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if slices.Contains(h.names, cmd.Name()) {
			cmd.SetErr(h.err)
			return h.err
		}
		return next(ctx, cmd)
	}
}

func (h failHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}
