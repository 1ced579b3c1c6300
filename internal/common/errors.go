// Package common defines shared constants and sentinel errors used across
// client and server layers of ProjectGate. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Authentication and authorization outcomes. Messages are deliberately
	// generic: none of them says which check failed.
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("the username or password is incorrect")
	ErrUnauthenticated    = errors.New("invalid authentication credentials")
	ErrForbidden          = errors.New("insufficient role")

	// Token decoding errors. These never leave the auth package boundary
	// unmapped; the resolver folds all of them into ErrUnauthenticated.
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenInvalidSignature = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)
