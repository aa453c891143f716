package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func allSentinels() map[string]error {
	return map[string]error{
		"ErrInvalidInput":        ErrInvalidInput,
		"ErrOperationInProgress": ErrOperationInProgress,
		"ErrTransientUpstream":   ErrTransientUpstream,
		"ErrAuthExpired":         ErrAuthExpired,
		"ErrAuthRequired":        ErrAuthRequired,
		"ErrRateLimited":         ErrRateLimited,
	}
}

func TestErrors_Messages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidInput, "invalid input"},
		{ErrOperationInProgress, "operation in progress"},
		{ErrTransientUpstream, "upstream request failed"},
		{ErrAuthExpired, "authentication expired"},
		{ErrAuthRequired, "authentication required"},
		{ErrRateLimited, "rate limited"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrors_AreDistinct(t *testing.T) {
	sentinels := allSentinels()
	for name, err := range sentinels {
		for other, otherErr := range sentinels {
			if name == other {
				continue
			}
			assert.False(t, errors.Is(err, otherErr), "%s must not match %s", name, other)
		}
	}
}

// Connector errors wrap a sentinel together with the upstream cause.
func TestErrors_MatchThroughWrapping(t *testing.T) {
	cause := errors.New("twitch: API error 401: invalid oauth token")

	t.Run("double wrapped auth failure", func(t *testing.T) {
		err := fmt.Errorf("discover clips: %w", fmt.Errorf("%w: %w", ErrAuthExpired, cause))
		assert.ErrorIs(t, err, ErrAuthExpired)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, ErrTransientUpstream)
	})

	t.Run("transient after retries", func(t *testing.T) {
		err := fmt.Errorf("discovery pass 2, page 3: %w", fmt.Errorf("%w: %w", ErrTransientUpstream, cause))
		assert.ErrorIs(t, err, ErrTransientUpstream)
		assert.NotErrorIs(t, err, ErrAuthExpired)
	})

	t.Run("validation", func(t *testing.T) {
		err := fmt.Errorf("--start: %w", fmt.Errorf("%w: end date is before start date", ErrInvalidInput))
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "end date is before start date")
	})
}
