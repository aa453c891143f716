package auth

import (
	"context"
	"os"
	"strings"

	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
)

// EnvAccessToken is the environment variable holding the user access token.
const EnvAccessToken = "CLIPPER_ACCESS_TOKEN"

// Ensure StaticTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticTokenProvider)(nil)

// StaticTokenProvider hands out a token obtained outside clipper.
// User access tokens are not refreshed here; an expired token surfaces as
// domain.ErrAuthExpired from the upstream instead.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a provider for the given token.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: strings.TrimSpace(token)}
}

// NewEnvTokenProvider creates a provider from EnvAccessToken.
func NewEnvTokenProvider() *StaticTokenProvider {
	return NewStaticTokenProvider(os.Getenv(EnvAccessToken))
}

// GetToken returns the configured token.
func (p *StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", domain.ErrAuthRequired
	}
	return p.token, nil
}

// IsAuthenticated returns true if a token is configured.
func (p *StaticTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}
