package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOperationInProgress indicates a discovery or download is already running.
	ErrOperationInProgress = errors.New("operation in progress")

	// Upstream Errors.

	// ErrTransientUpstream indicates a network failure or non-2xx upstream
	// response that persisted after retries.
	ErrTransientUpstream = errors.New("upstream request failed")

	// ErrAuthExpired indicates the upstream rejected the credentials.
	// The user must obtain a new access token.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrAuthRequired indicates no credentials are configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
