package twitch

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/clipper/internal/core/domain"
)

// RateLimitError represents a 429 response.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return "twitch: rate limit exceeded"
	}
	return fmt.Sprintf("twitch: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Unwrap lets errors.Is match domain.ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// APIError represents a non-2xx Helix response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitch: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// retryable reports whether a failed attempt may be repeated.
func retryable(err error) bool {
	switch {
	case IsUnauthorized(err), isContextError(err):
		return false
	case errors.Is(err, domain.ErrAuthRequired):
		return false
	case errors.Is(err, errBadRequest):
		return false
	}
	return true
}

// errBadRequest marks a request the client refused to send.
var errBadRequest = errors.New("twitch: invalid request")

// classify maps a final attempt error onto the domain taxonomy.
func classify(err error) error {
	switch {
	case IsUnauthorized(err):
		return fmt.Errorf("%w: %w", domain.ErrAuthExpired, err)
	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, errBadRequest):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrTransientUpstream, err)
	}
}
