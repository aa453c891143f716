package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
// Token acquisition itself happens outside clipper; providers only hand out
// what was configured.
type TokenProvider interface {
	// GetToken returns the access token.
	// Returns domain.ErrAuthRequired when no token is configured.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if a token is available.
	IsAuthenticated() bool
}
