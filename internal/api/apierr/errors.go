package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/leaderboard/internal/model"
)

// APIError is the body of every error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUsernameRequired = "USERNAME_REQUIRED"
	CodeFieldsRequired   = "FIELDS_REQUIRED"
	CodeUsernameExists   = "USERNAME_EXISTS"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeUnavailable      = "UNAVAILABLE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(he.apiError)
}

// IsInternal reports whether err would be written as a 5xx response
func IsInternal(err error) bool {
	return toHTTPError(err).status >= http.StatusInternalServerError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors. Duplicate usernames are a 400, not a 409.
	switch {
	case errors.Is(err, model.ErrUsernameRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeUsernameRequired, "Username is required"}}
	case errors.Is(err, model.ErrScoreFieldsRequired), errors.Is(err, model.ErrPlayerIDRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeFieldsRequired, "Player ID and score are required"}}
	case errors.Is(err, model.ErrUsernameExists):
		return &httpError{http.StatusBadRequest, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}

	// Any other error of a known kind
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrConflict):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	case errors.Is(err, model.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNotFoundError creates a generic not found error
func NewNotFoundError(message string) error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, message}}
}

// NewMethodNotAllowedError creates a method not allowed error
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{CodeMethodNotAllowed, "Method not allowed"}}
}

// NewUnavailableError creates a service unavailable error
func NewUnavailableError() error {
	return &httpError{http.StatusServiceUnavailable, APIError{CodeUnavailable, "Storage unavailable"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
