package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSessionNotFound indicates the addressed research session does not exist.
	// Returned by AddMessage rather than silently dropping the message.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Authentication Errors.

	// ErrAuthRequired indicates an operation needs a bearer token but none is stored.
	// Raised before any I/O is attempted.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the stored credentials were rejected by the backend.
	ErrAuthInvalid = errors.New("authentication invalid")
)
