package domain

import "errors"

var (
	// ErrInvalidCredentials is returned by login when the backend rejects
	// the username/password pair. The session is left untouched.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionInvalidated is returned by any call whose bearer token the
	// backend no longer accepts. It is the only global error: the interceptor
	// has already forced a logout by the time a caller sees it.
	ErrSessionInvalidated = errors.New("session invalidated")

	// ErrValidation marks a local required-field rejection. No network call
	// was made and the cache is untouched.
	ErrValidation = errors.New("validation failed")

	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("access forbidden")

	// ErrRoleTaken is returned when registering a second surface for a role.
	ErrRoleTaken = errors.New("role already registered")
)
