package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database (or is not visible to the caller).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. negative amount, unknown category, missing id).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the caller is authenticated but does not own
// the plan being read or mutated. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned when a request carries no valid session.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
