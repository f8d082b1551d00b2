package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the directory, ledger and storage
// packages for a caller mistake wraps exactly one of these.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
)

// Common errors used across the application
var (
	// Validation errors
	ErrUsernameRequired    = fmt.Errorf("%w: username is required", ErrValidation)
	ErrPlayerIDRequired    = fmt.Errorf("%w: player id is required", ErrValidation)
	ErrScoreFieldsRequired = fmt.Errorf("%w: player id and score are required", ErrValidation)

	// Conflict errors
	ErrUsernameExists = fmt.Errorf("%w: username already exists", ErrConflict)

	// Not found errors
	ErrPlayerNotFound = fmt.Errorf("%w: player not found", ErrNotFound)
)
