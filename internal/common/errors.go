// Package common defines shared constants and sentinel errors used across
// PantryKeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrorValidation      = errors.New("validation error")

	// Item-specific errors. ErrorIndexOutOfRange signals an item index
	// outside the current list; the boundary treats it as a not-found
	// condition.
	ErrorIndexOutOfRange = errors.New("item index out of range")

	// Auth errors (invalid, expired or revoked token).
	ErrInvalidToken = errors.New("invalid token")
)
