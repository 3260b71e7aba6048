package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("unprocessable")
	ErrBadRequest   = errors.New("bad request")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// CodedError is implemented by errors that carry their own status and code,
// such as authorization failures.
type CodedError interface {
	error
	HTTPStatus() int
	ErrorCode() string
}

// RespondError maps domain errors to JSON error envelopes.
func RespondError(w http.ResponseWriter, err error) {
	var coded CodedError
	if errors.As(err, &coded) {
		Error(w, coded.HTTPStatus(), coded.Error(), coded.ErrorCode())
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusUnprocessableEntity, err.Error(), "")
	case errors.Is(err, ErrBadRequest):
		Error(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, ErrForbidden):
		Error(w, http.StatusForbidden, err.Error(), "")
	case errors.Is(err, ErrUnauthorized):
		Error(w, http.StatusUnauthorized, err.Error(), "")
	default:
		Error(w, http.StatusInternalServerError, "internal server error", "")
	}
}

// StatusOf reports the status RespondError would write for err.
func StatusOf(err error) int {
	var coded CodedError
	if errors.As(err, &coded) {
		return coded.HTTPStatus()
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
