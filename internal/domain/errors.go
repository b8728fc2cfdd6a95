package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrAllocationExhausted is returned by the username allocator when the
	// base candidate and all 99 numeric-suffix variants are taken.
	ErrAllocationExhausted = errors.New("username allocation exhausted")

	// ErrUnavailable marks transient persistence failures. Callers may retry
	// the affected call.
	ErrUnavailable = errors.New("store unavailable")
)
