package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// record does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. no countries, negative amount, unknown currency).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidPeriod is returned by ParsePeriod for an unrecognized period name.
// Callers recover locally by falling back to the endpoint's default period
// rather than surfacing the error to the client.
var ErrInvalidPeriod = errors.New("invalid period")
