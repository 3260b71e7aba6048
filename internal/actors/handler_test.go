package actors_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/casting-agency/casting-agency/internal/actors"
	"github.com/casting-agency/casting-agency/internal/auth"
	"github.com/casting-agency/casting-agency/internal/auth/authtest"
	"github.com/casting-agency/casting-agency/internal/movies"
	"github.com/casting-agency/casting-agency/internal/rbac"
	"github.com/casting-agency/casting-agency/internal/shared"
	"github.com/casting-agency/casting-agency/internal/testing/dbtest"
)

type envelope struct {
	Success bool           `json:"success"`
	Actors  []actors.Actor `json:"actors"`
	Actor   actors.Actor   `json:"actor"`
	Total   int64          `json:"total"`
	Delete  int64          `json:"delete"`
	Error   int            `json:"error"`
	Message string         `json:"message"`
	Code    string         `json:"code"`
}

type fixture struct {
	t         *testing.T
	db        *gorm.DB
	router    http.Handler
	director  string
	assistant string
	movie     movies.Movie
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	issuer := authtest.NewIssuer(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	service := actors.NewService(
		actors.NewRepository(gdb),
		movies.NewRepository(gdb),
		shared.NewCache(client, time.Minute),
		shared.NewAuditLogger(gdb),
		nil,
	)
	handler := actors.NewHandler(nil, service, rbac.NewMiddleware(issuer.Verifier(), nil))
	r := chi.NewRouter()
	handler.MountRoutes(r)

	director, _ := rbac.PermissionsFor(rbac.RoleDirector)
	assistant, _ := rbac.PermissionsFor(rbac.RoleAssistant)

	date, err := movies.ParseDate("2017-10-20")
	require.NoError(t, err)
	movie := movies.Movie{Title: "Call Me by Your Name", ReleaseDate: date}
	require.NoError(t, gdb.Create(&movie).Error)

	return &fixture{
		t:         t,
		db:        gdb,
		router:    r,
		director:  issuer.Bearer(t, director...),
		assistant: issuer.Bearer(t, assistant...),
		movie:     movie,
	}
}

func (f *fixture) seed(name string, age int, movieID *int64) actors.Actor {
	f.t.Helper()
	actor := actors.Actor{Name: name, Age: age, Gender: "F", MovieID: movieID}
	require.NoError(f.t, f.db.Create(&actor).Error)
	return actor
}

func (f *fixture) do(method, path, token string, body any) (int, envelope) {
	f.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	var env envelope
	require.NoError(f.t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr.Code, env
}

func TestListActors(t *testing.T) {
	f := newFixture(t)
	f.seed("Timothée Chalamet", 24, &f.movie.ID)
	f.seed("Armie Hammer", 33, nil)

	for _, token := range []string{f.director, f.assistant} {
		status, env := f.do(http.MethodGet, "/actors", token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, env.Success)
		require.Len(t, env.Actors, 2)
		assert.Equal(t, int64(2), env.Total)
		assert.Equal(t, "Timothée Chalamet", env.Actors[0].Name)
	}
}

func TestListActorsEmptyIsArray(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/actors", nil)
	req.Header.Set("Authorization", f.director)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"actors":[],"total":0}`, rr.Body.String())
}

func TestListActorsFilters(t *testing.T) {
	f := newFixture(t)
	f.seed("Ada", 30, &f.movie.ID)
	f.seed("Adam", 40, nil)
	f.seed("Bea", 50, &f.movie.ID)

	_, env := f.do(http.MethodGet, "/actors?search=ADA", f.director, nil)
	assert.Len(t, env.Actors, 2)

	_, env = f.do(http.MethodGet, "/actors?movie_id="+strconv.FormatInt(f.movie.ID, 10), f.director, nil)
	require.Len(t, env.Actors, 2)
	assert.Equal(t, "Ada", env.Actors[0].Name)
	assert.Equal(t, "Bea", env.Actors[1].Name)

	_, env = f.do(http.MethodGet, "/actors?limit=2&page=2", f.director, nil)
	require.Len(t, env.Actors, 1)
	assert.Equal(t, "Bea", env.Actors[0].Name)
	assert.Equal(t, int64(3), env.Total)
}

func TestListActorsCacheInvalidatedByWrites(t *testing.T) {
	f := newFixture(t)
	f.seed("Ada", 30, nil)

	_, env := f.do(http.MethodGet, "/actors", f.director, nil)
	require.Len(t, env.Actors, 1)

	f.seed("Out Of Band", 40, nil)
	_, env = f.do(http.MethodGet, "/actors", f.director, nil)
	assert.Len(t, env.Actors, 1, "served from cache")

	status, _ := f.do(http.MethodPost, "/actors", f.director, map[string]any{"name": "Bea", "age": 22, "gender": "F"})
	require.Equal(t, http.StatusOK, status)

	_, env = f.do(http.MethodGet, "/actors", f.director, nil)
	assert.Len(t, env.Actors, 3)
}

func TestShowActor(t *testing.T) {
	f := newFixture(t)
	actor := f.seed("Ada", 30, &f.movie.ID)

	status, env := f.do(http.MethodGet, "/actors/"+strconv.FormatInt(actor.ID, 10), f.assistant, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ada", env.Actor.Name)
	require.NotNil(t, env.Actor.MovieID)
	assert.Equal(t, f.movie.ID, *env.Actor.MovieID)

	status, env = f.do(http.MethodGet, "/actors/9999", f.assistant, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)

	for _, raw := range []string{"abc", "0", "-4"} {
		status, env = f.do(http.MethodGet, "/actors/"+raw, f.assistant, nil)
		assert.Equal(t, http.StatusNotFound, status, raw)
		assert.Equal(t, http.StatusNotFound, env.Error, raw)
	}
	status, _ = f.do(http.MethodDelete, "/actors/abc", f.director, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateActor(t *testing.T) {
	f := newFixture(t)

	status, env := f.do(http.MethodPost, "/actors", f.director, map[string]any{
		"name":     "Timothée Chalamet",
		"age":      24,
		"gender":   "M",
		"movie_id": f.movie.ID,
	})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.NotZero(t, env.Actor.ID)
	assert.Equal(t, 24, env.Actor.Age)
	require.NotNil(t, env.Actor.MovieID)

	var entries []shared.AuditEntry
	require.NoError(t, f.db.Where("entity = ?", "actor").Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, shared.AuditCreate, entries[0].Action)
	assert.Equal(t, "auth0|tester", entries[0].Subject)
	assert.Equal(t, strconv.FormatInt(env.Actor.ID, 10), entries[0].EntityID)
}

func TestCreateActorValidation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		body map[string]any
		want string
	}{
		{"empty age", map[string]any{"name": "Ada", "age": "", "gender": "M", "movie_id": f.movie.ID}, "age is required"},
		{"blank name", map[string]any{"name": "  ", "age": 20, "gender": "M"}, "name is required"},
		{"missing gender", map[string]any{"name": "Ada", "age": 20}, "gender is required"},
		{"negative age", map[string]any{"name": "Ada", "age": -3, "gender": "M"}, "age must be at least 0"},
		{"non-integer age", map[string]any{"name": "Ada", "age": "old", "gender": "M"}, "age must be an integer"},
		{"unknown movie", map[string]any{"name": "Ada", "age": 20, "gender": "M", "movie_id": 9999}, "movie_id does not reference an existing movie"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := f.do(http.MethodPost, "/actors", f.director, tc.body)
			assert.Equal(t, http.StatusUnprocessableEntity, status)
			assert.False(t, env.Success)
			assert.Equal(t, http.StatusUnprocessableEntity, env.Error)
			assert.Contains(t, env.Message, tc.want)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&actors.Actor{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateActorMalformedJSON(t *testing.T) {
	f := newFixture(t)
	status, env := f.do(http.MethodPost, "/actors", f.director, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
}

func TestActorRoutesEnforcePermissions(t *testing.T) {
	f := newFixture(t)
	actor := f.seed("Ada", 30, nil)
	path := "/actors/" + strconv.FormatInt(actor.ID, 10)

	status, env := f.do(http.MethodGet, "/actors", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeHeaderMissing, env.Code)

	status, env = f.do(http.MethodPost, "/actors", f.assistant, map[string]any{"name": "Bea", "age": 20, "gender": "F"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, auth.CodeUnauthorized, env.Code)

	status, _ = f.do(http.MethodPatch, path, f.assistant, map[string]any{"name": "Bea"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = f.do(http.MethodDelete, path, f.assistant, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUpdateActorIgnoresEmptyFields(t *testing.T) {
	f := newFixture(t)
	actor := f.seed("Armie Hammer", 33, &f.movie.ID)
	path := "/actors/" + strconv.FormatInt(actor.ID, 10)

	status, env := f.do(http.MethodPatch, path, f.director, map[string]any{
		"name":     "",
		"age":      88,
		"gender":   "",
		"movie_id": "",
	})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, "Armie Hammer", env.Actor.Name)
	assert.Equal(t, 88, env.Actor.Age)
	assert.Equal(t, "F", env.Actor.Gender)
	require.NotNil(t, env.Actor.MovieID)
	assert.Equal(t, f.movie.ID, *env.Actor.MovieID)

	var stored actors.Actor
	require.NoError(t, f.db.First(&stored, actor.ID).Error)
	assert.Equal(t, 88, stored.Age)

	status, env = f.do(http.MethodPatch, path, f.director, map[string]any{"age": 200})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Message, "age must be at most 150")
}

func TestUpdateActorNotFound(t *testing.T) {
	f := newFixture(t)
	status, env := f.do(http.MethodPatch, "/actors/100", f.director, map[string]any{"name": "testing", "age": 88})
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
}

func TestDeleteActor(t *testing.T) {
	f := newFixture(t)
	actor := f.seed("Ada", 30, nil)
	path := "/actors/" + strconv.FormatInt(actor.ID, 10)

	status, env := f.do(http.MethodDelete, path, f.director, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, actor.ID, env.Delete)

	status, env = f.do(http.MethodDelete, path, f.director, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)

	var actions []string
	require.NoError(t, f.db.Model(&shared.AuditEntry{}).Where("entity = ?", "actor").Pluck("action", &actions).Error)
	assert.Equal(t, []string{shared.AuditDelete}, actions)
}
