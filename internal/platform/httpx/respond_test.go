package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codedErr struct{}

func (codedErr) Error() string     { return "Authorization header is expected." }
func (codedErr) HTTPStatus() int   { return http.StatusUnauthorized }
func (codedErr) ErrorCode() string { return "authorization_header_missing" }

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("actor 7: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: name is required", ErrValidation), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: invalid id", ErrBadRequest), http.StatusBadRequest},
		{ErrForbidden, http.StatusForbidden},
		{ErrUnauthorized, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		RespondError(rr, tc.err)

		assert.Equal(t, tc.status, rr.Code, tc.err.Error())
		assert.Equal(t, tc.status, StatusOf(tc.err))
		body := decodeBody(t, rr)
		assert.False(t, body.Success)
		assert.Equal(t, tc.status, body.Error)
		assert.NotEmpty(t, body.Message)
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("pq: connection refused"))

	body := decodeBody(t, rr)
	assert.Equal(t, "internal server error", body.Message)
}

func TestRespondErrorUsesCodedError(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, fmt.Errorf("wrapped: %w", codedErr{}))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "authorization_header_missing", body.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestDecodeJSON(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jane"}`))
	require.NoError(t, DecodeJSON(req, &target))
	assert.Equal(t, "Jane", target.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.ErrorIs(t, DecodeJSON(req, &target), ErrBadRequest)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.ErrorIs(t, DecodeJSON(req, &target), ErrBadRequest)
}
