// Package httpx provides HTTP response utilities for the JSON API envelope.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrorBody is the envelope written for every failed request.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends the failure envelope.
func Error(w http.ResponseWriter, status int, message, code string) {
	if message == "" {
		message = http.StatusText(status)
	}
	JSON(w, status, ErrorBody{
		Success: false,
		Error:   status,
		Message: message,
		Code:    code,
	})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body required", ErrBadRequest)
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body required", ErrBadRequest)
		}
		return fmt.Errorf("%w: malformed JSON: %v", ErrBadRequest, err)
	}
	return nil
}
