package domain

import "errors"

// Error taxonomy shared by services and mapped to HTTP status codes by the api package.
var (
	ErrNotFound     = errors.New("not found")         // user or bet missing
	ErrValidation   = errors.New("validation failed") // limit violations, malformed input
	ErrInvalidState = errors.New("invalid state")     // mutating a terminal bet
	ErrConflict     = errors.New("conflict")          // duplicate email
	ErrUnauthorized = errors.New("unauthorized")      // bad credentials or token
)
