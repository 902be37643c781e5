package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated: no credential was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized: a credential was presented but could not be verified.
	ErrUnauthorized     = errors.New("unauthorized")
	ErrExpiredToken     = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrInvalidSignature = fmt.Errorf("%w: invalid token signature", ErrUnauthorized)

	ErrForbidden = errors.New("forbidden")

	ErrNotFound   = errors.New("resource not found")
	ErrNoSuchUser = fmt.Errorf("%w: no such user", ErrNotFound)

	ErrConflict    = errors.New("conflict")
	ErrAlreadySold = fmt.Errorf("%w: product already sold", ErrConflict)

	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("service unavailable")

	// ErrDuplicate is raised by stores on a unique key violation.
	ErrDuplicate = errors.New("duplicate key")
)
