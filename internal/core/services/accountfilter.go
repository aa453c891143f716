package services

import "github.com/custodia-labs/clipper/internal/core/domain"

// ApplyAccountFilter keeps or drops clips by creator.
// With mode none or an empty name list the input is returned unchanged.
func ApplyAccountFilter(clips []domain.Clip, mode domain.AccountFilterMode, names []string) []domain.Clip {
	if len(names) == 0 {
		return clips
	}

	var keepListed bool
	switch mode {
	case domain.AccountFilterWhitelist:
		keepListed = true
	case domain.AccountFilterBlacklist:
		keepListed = false
	default:
		return clips
	}

	set := domain.NameSet(names)
	result := make([]domain.Clip, 0, len(clips))
	for _, c := range clips {
		if _, listed := set[c.Creator]; listed == keepListed {
			result = append(result, c)
		}
	}
	return result
}
