package auth

import "errors"

var (
	ErrUnauthorized = errors.New("auth: unauthorized")
	ErrForbidden    = errors.New("auth: forbidden")
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrOwnerMismatch indicates the resource belongs to a different owner
	// account.
	ErrOwnerMismatch = errors.New("auth: owner mismatch")
	// ErrNotFound indicates the checked resource does not exist.
	ErrNotFound = errors.New("auth: resource not found")
)
