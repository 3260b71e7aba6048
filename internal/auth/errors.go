package auth

import "net/http"

// Error codes reported to clients.
const (
	CodeHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader = "invalid_header"
	CodeTokenExpired  = "token_expired"
	CodeInvalidClaims = "invalid_claims"
	CodeUnauthorized  = "unauthorized"
)

// Error is an authorization failure with the status and code sent to the client.
type Error struct {
	Code        string
	Description string
	Status      int
}

func (e *Error) Error() string { return e.Description }

// HTTPStatus implements httpx.CodedError.
func (e *Error) HTTPStatus() int { return e.Status }

// ErrorCode implements httpx.CodedError.
func (e *Error) ErrorCode() string { return e.Code }

func newError(code, description string, status int) *Error {
	return &Error{Code: code, Description: description, Status: status}
}

func errHeaderMissing() *Error {
	return newError(CodeHeaderMissing, "Authorization header is expected.", http.StatusUnauthorized)
}

func errInvalidHeader(description string) *Error {
	return newError(CodeInvalidHeader, description, http.StatusUnauthorized)
}

func errTokenExpired() *Error {
	return newError(CodeTokenExpired, "Token expired.", http.StatusUnauthorized)
}

func errInvalidClaims(description string) *Error {
	return newError(CodeInvalidClaims, description, http.StatusUnauthorized)
}

func errPermissionsMissing() *Error {
	return newError(CodeInvalidClaims, "Permissions not included in JWT.", http.StatusBadRequest)
}

func errPermissionDenied() *Error {
	return newError(CodeUnauthorized, "Permission not found.", http.StatusForbidden)
}
