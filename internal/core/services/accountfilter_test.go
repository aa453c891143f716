package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/clipper/internal/core/domain"
)

func creatorClips() []domain.Clip {
	return []domain.Clip{
		{ID: "1", Creator: "a"},
		{ID: "2", Creator: "b"},
		{ID: "3", Creator: "a"},
	}
}

func clipIDs(clips []domain.Clip) []string {
	ids := make([]string, len(clips))
	for i, c := range clips {
		ids[i] = c.ID
	}
	return ids
}

func TestApplyAccountFilter(t *testing.T) {
	t.Run("whitelist keeps listed creators", func(t *testing.T) {
		got := ApplyAccountFilter(creatorClips(), domain.AccountFilterWhitelist, []string{"a"})

		assert.Equal(t, []string{"1", "3"}, clipIDs(got))
	})

	t.Run("blacklist drops listed creators", func(t *testing.T) {
		got := ApplyAccountFilter(creatorClips(), domain.AccountFilterBlacklist, []string{"a"})

		assert.Equal(t, []string{"2"}, clipIDs(got))
	})

	t.Run("empty names leave input unchanged", func(t *testing.T) {
		for _, mode := range []domain.AccountFilterMode{domain.AccountFilterWhitelist, domain.AccountFilterBlacklist} {
			got := ApplyAccountFilter(creatorClips(), mode, nil)

			assert.Equal(t, creatorClips(), got, mode)
		}
	})

	t.Run("mode none ignores names", func(t *testing.T) {
		got := ApplyAccountFilter(creatorClips(), domain.AccountFilterNone, []string{"a"})

		assert.Equal(t, creatorClips(), got)
	})

	t.Run("does not modify input", func(t *testing.T) {
		in := creatorClips()

		_ = ApplyAccountFilter(in, domain.AccountFilterBlacklist, []string{"b"})

		assert.Equal(t, creatorClips(), in)
	})
}
