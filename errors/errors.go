package errors

import "errors"

// Sentinel errors for common error conditions
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrToolNotFound indicates that no tool is registered under the requested name
	ErrToolNotFound = errors.New("tool not found")

	// ErrFormNotFound indicates that no form schema exists for the requested id
	ErrFormNotFound = errors.New("form not found")

	// ErrInvalidInput indicates that input validation failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable indicates the generation service has no credential configured
	ErrProviderUnavailable = errors.New("generation service not configured")

	// ErrRateLimited indicates the caller exceeded the request rate limit
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")
)
