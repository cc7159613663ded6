package auth

import "errors"

var (
	// ErrMissingFields indicates a registration with an empty required field.
	ErrMissingFields = errors.New("missing required fields")

	// ErrEmailTaken indicates a registration against an already-used email.
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong password;
	// the two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized indicates a missing, invalid, or expired session.
	ErrUnauthorized = errors.New("unauthorized")
)
