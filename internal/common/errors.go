// Package common contains shared constants and sentinel errors used across
// TaskCrew client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")

	// Session errors.
	ErrNotLoggedIn = errors.New("not logged in")
)
