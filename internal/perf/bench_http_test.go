package perf

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/casting-agency/casting-agency/internal/actors"
	"github.com/casting-agency/casting-agency/internal/auth/authtest"
	"github.com/casting-agency/casting-agency/internal/movies"
	"github.com/casting-agency/casting-agency/internal/rbac"
	"github.com/casting-agency/casting-agency/internal/shared"
	"github.com/casting-agency/casting-agency/internal/testing/dbtest"
)

func newActorsRouter(b *testing.B, cache *shared.Cache) (http.Handler, string) {
	b.Helper()
	gdb := dbtest.Open(b)
	for i := 0; i < 200; i++ {
		actor := actors.Actor{Name: fmt.Sprintf("Actor %03d", i), Age: 20 + i%50, Gender: "female"}
		if err := gdb.Create(&actor).Error; err != nil {
			b.Fatalf("seed actor: %v", err)
		}
	}
	issuer := authtest.NewIssuer(b)
	service := actors.NewService(actors.NewRepository(gdb), movies.NewRepository(gdb), cache, nil, nil)
	r := chi.NewRouter()
	actors.NewHandler(nil, service, rbac.NewMiddleware(issuer.Verifier(), nil)).MountRoutes(r)
	return r, issuer.Bearer(b, rbac.PermGetActors)
}

func benchmarkList(b *testing.B, handler http.Handler, bearer string) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/actors?limit=50", nil)
		req.Header.Set("Authorization", bearer)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			b.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
		}
	}
}

func BenchmarkActorsListUncached(b *testing.B) {
	handler, bearer := newActorsRouter(b, nil)
	benchmarkList(b, handler, bearer)
}

func BenchmarkActorsListCached(b *testing.B) {
	mr := miniredis.RunT(b)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b.Cleanup(func() { _ = client.Close() })
	handler, bearer := newActorsRouter(b, shared.NewCache(client, time.Minute))
	benchmarkList(b, handler, bearer)
}
