package movies_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
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
	Movies  []movies.Movie `json:"movies"`
	Movie   movies.Movie   `json:"movie"`
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
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	issuer := authtest.NewIssuer(t)

	service := movies.NewService(movies.NewRepository(gdb), nil, shared.NewAuditLogger(gdb), nil)
	handler := movies.NewHandler(nil, service, rbac.NewMiddleware(issuer.Verifier(), nil))
	r := chi.NewRouter()
	handler.MountRoutes(r)

	director, _ := rbac.PermissionsFor(rbac.RoleDirector)
	assistant, _ := rbac.PermissionsFor(rbac.RoleAssistant)
	return &fixture{
		t:         t,
		db:        gdb,
		router:    r,
		director:  issuer.Bearer(t, director...),
		assistant: issuer.Bearer(t, assistant...),
	}
}

func (f *fixture) seed(title, date string) movies.Movie {
	f.t.Helper()
	d, err := movies.ParseDate(date)
	require.NoError(f.t, err)
	movie := movies.Movie{Title: title, ReleaseDate: d}
	require.NoError(f.t, f.db.Create(&movie).Error)
	return movie
}

func (f *fixture) do(method, path, token string, body any) (int, envelope) {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
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

func path(id int64) string {
	return "/movies/" + strconv.FormatInt(id, 10)
}

func TestListMovies(t *testing.T) {
	f := newFixture(t)
	f.seed("Call Me by Your Name", "2017-10-20")
	f.seed("Dune", "2021-10-22")

	status, env := f.do(http.MethodGet, "/movies", f.assistant, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	require.Len(t, env.Movies, 2)
	assert.Equal(t, "2017-10-20", env.Movies[0].ReleaseDate.String())

	_, env = f.do(http.MethodGet, "/movies?search=dune", f.assistant, nil)
	require.Len(t, env.Movies, 1)
	assert.Equal(t, "Dune", env.Movies[0].Title)

	status, env = f.do(http.MethodGet, "/movies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeHeaderMissing, env.Code)
}

func TestShowMovieIncludesActors(t *testing.T) {
	f := newFixture(t)
	movie := f.seed("Dune", "2021-10-22")
	require.NoError(t, f.db.Create(&actors.Actor{Name: "Zendaya", Age: 25, Gender: "F", MovieID: &movie.ID}).Error)

	status, env := f.do(http.MethodGet, path(movie.ID), f.assistant, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Dune", env.Movie.Title)
	require.Len(t, env.Movie.Actors, 1)
	assert.Equal(t, "Zendaya", env.Movie.Actors[0].Name)

	status, _ = f.do(http.MethodGet, "/movies/100", f.assistant, nil)
	assert.Equal(t, http.StatusNotFound, status)

	for _, raw := range []string{"abc", "0", "1.5"} {
		status, env = f.do(http.MethodGet, "/movies/"+raw, f.assistant, nil)
		assert.Equal(t, http.StatusNotFound, status, raw)
		assert.False(t, env.Success, raw)
	}
	status, _ = f.do(http.MethodPatch, "/movies/abc", f.director, map[string]any{"title": "testing"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateMovie(t *testing.T) {
	f := newFixture(t)

	status, env := f.do(http.MethodPost, "/movies", f.director, map[string]any{
		"title":        "Call Me by Your Name",
		"release_date": "2017-10-20",
	})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.NotZero(t, env.Movie.ID)
	assert.Equal(t, "2017-10-20", env.Movie.ReleaseDate.String())

	var stored movies.Movie
	require.NoError(t, f.db.First(&stored, env.Movie.ID).Error)
	assert.Equal(t, "2017-10-20", stored.ReleaseDate.String())

	status, env = f.do(http.MethodPost, "/movies", f.assistant, map[string]any{"title": "x", "release_date": "2020-01-01"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, auth.CodeUnauthorized, env.Code)
}

func TestCreateMovieValidation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		body map[string]any
		want string
	}{
		{"empty title", map[string]any{"title": "", "release_date": "2017-01-01"}, "title is required"},
		{"missing date", map[string]any{"title": "Dune"}, "release_date is required"},
		{"bad date", map[string]any{"title": "Dune", "release_date": "01/01/2017"}, "release_date must be a date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := f.do(http.MethodPost, "/movies", f.director, tc.body)
			assert.Equal(t, http.StatusUnprocessableEntity, status)
			assert.False(t, env.Success)
			assert.Contains(t, env.Message, tc.want)
		})
	}
}

func TestUpdateMovie(t *testing.T) {
	f := newFixture(t)
	movie := f.seed("Dune", "2021-10-22")

	status, env := f.do(http.MethodPatch, path(movie.ID), f.director, map[string]any{
		"title":        "",
		"release_date": "2020-11-01",
	})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, "Dune", env.Movie.Title)
	assert.Equal(t, "2020-11-01", env.Movie.ReleaseDate.String())

	status, env = f.do(http.MethodPatch, path(movie.ID), f.director, map[string]any{"release_date": "tomorrow"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, env.Success)

	status, env = f.do(http.MethodPatch, "/movies/100", f.director, map[string]any{"title": "testing", "release_date": "2020-11-01"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestDeleteMovieDetachesActors(t *testing.T) {
	f := newFixture(t)
	movie := f.seed("Dune", "2021-10-22")
	actor := actors.Actor{Name: "Zendaya", Age: 25, Gender: "F", MovieID: &movie.ID}
	require.NoError(t, f.db.Create(&actor).Error)

	status, env := f.do(http.MethodDelete, path(movie.ID), f.director, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, movie.ID, env.Delete)

	var stored actors.Actor
	require.NoError(t, f.db.First(&stored, actor.ID).Error)
	assert.Nil(t, stored.MovieID)

	status, env = f.do(http.MethodDelete, path(movie.ID), f.director, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)

	var count int64
	require.NoError(t, f.db.Model(&shared.AuditEntry{}).Where("entity = ? AND action = ?", "movie", shared.AuditDelete).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
