package domain

import "errors"

// Caller-facing failure taxonomy. Every failed register/login/validate call
// resolves to exactly one of these, regardless of how the underlying store
// call failed.
var (
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// Upstream failures: the credential store misbehaved or was unreachable.
	ErrStoreUnavailable = errors.New("credential store unavailable")
	ErrBadStoreResponse = errors.New("malformed credential store response")
	ErrStoreFailure     = errors.New("credential store request failed")
)
