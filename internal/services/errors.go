package services

import "errors"

// Failure classes the HTTP boundary maps onto status codes.
var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing user, course, cart or order.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate marks a unique-constraint collision (username, email,
	// enrollment pair).
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. The two cases must stay indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidSignature marks a payment callback whose signature does not
	// match the gateway's.
	ErrInvalidSignature = errors.New("invalid payment signature")
)
