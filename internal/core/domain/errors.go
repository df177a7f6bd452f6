package domain

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrUpstreamAuthFailure = errors.New("auth service unavailable")
	ErrProductNotFound     = errors.New("product not found")

	// ErrUserNotFound never leaves the service layer; login collapses it
	// into ErrInvalidCredentials.
	ErrUserNotFound = errors.New("user not found")
)
