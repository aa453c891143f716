package services

import (
	"sort"

	"github.com/custodia-labs/clipper/internal/core/domain"
)

// RedundancyResult is the outcome of a redundancy filter run.
type RedundancyResult struct {
	// Kept holds the surviving clips in no guaranteed order.
	Kept []domain.Clip

	// Removed counts clips dropped as redundant.
	Removed int

	// UnknownOffset counts clips kept without filtering because their
	// timeline offset is unknown.
	UnknownOffset int
}

// PartialFiltering reports whether some clips bypassed the filter.
func (r RedundancyResult) PartialFiltering() bool {
	return r.UnknownOffset > 0
}

// SortByDurationDesc orders clips longest first, ties by ascending ID.
// This is the order the redundancy filter evaluates clips in: longer clips
// are accepted first and anchor the coverage shorter clips are judged
// against.
func SortByDurationDesc(clips []domain.Clip) {
	sort.SliceStable(clips, func(a, b int) bool {
		if clips[a].Duration != clips[b].Duration {
			return clips[a].Duration > clips[b].Duration
		}
		return clips[a].ID < clips[b].ID
	})
}

// FilterRedundant reduces clips to a covering subset.
//
// Clips are evaluated longest first. A clip whose whole-second interval is
// covered by already kept clips to at least threshold becomes a removal
// candidate; it is dropped only when its longest uncovered run is at most
// maxGap seconds. Clips with an unknown offset are always kept and never
// contribute coverage. Clips shorter than one second are kept unexamined.
func FilterRedundant(clips []domain.Clip, maxGap int, threshold float64) RedundancyResult {
	var (
		result     RedundancyResult
		candidates []domain.Clip
	)

	for _, c := range clips {
		switch {
		case !c.HasOffset():
			result.UnknownOffset++
			result.Kept = append(result.Kept, c)
		case c.WholeSeconds() <= 0:
			result.Kept = append(result.Kept, c)
		default:
			candidates = append(candidates, c)
		}
	}

	SortByDurationDesc(candidates)

	intervals := make([]domain.Interval, len(candidates))
	for i, c := range candidates {
		intervals[i], _ = c.Interval()
	}
	neighbours := overlapRelation(intervals)

	kept := make([]bool, len(candidates))
	for i, c := range candidates {
		covered := coverage(intervals[i], intervals, neighbours[i], kept)
		if isRedundant(covered, maxGap, threshold) {
			result.Removed++
			continue
		}
		kept[i] = true
		result.Kept = append(result.Kept, c)
	}

	return result
}

// overlapRelation returns, for each interval, the indices of the intervals
// it overlaps. Intervals whose starts are further apart than the longest
// possible clip are skipped without comparing ends.
func overlapRelation(intervals []domain.Interval) [][]int {
	rel := make([][]int, len(intervals))
	for i := range intervals {
		for j := i + 1; j < len(intervals); j++ {
			if absInt(intervals[i].Start-intervals[j].Start) > domain.MaxClipDuration {
				continue
			}
			if intervals[i].Overlaps(intervals[j]) {
				rel[i] = append(rel[i], j)
				rel[j] = append(rel[j], i)
			}
		}
	}
	return rel
}

// coverage marks which seconds of target are covered by kept neighbours.
// Index k of the result is second target.Start+k.
func coverage(target domain.Interval, intervals []domain.Interval, neighbours []int, kept []bool) []bool {
	covered := make([]bool, target.Len())
	for _, j := range neighbours {
		if !kept[j] {
			continue
		}
		from := max(target.Start, intervals[j].Start)
		to := min(target.End, intervals[j].End)
		for s := from; s < to; s++ {
			covered[s-target.Start] = true
		}
	}
	return covered
}

// isRedundant applies the threshold and max gap rules to a coverage map.
func isRedundant(covered []bool, maxGap int, threshold float64) bool {
	if len(covered) == 0 {
		return false
	}

	count := 0
	for _, c := range covered {
		if c {
			count++
		}
	}
	if float64(count)/float64(len(covered)) < threshold {
		return false
	}
	return longestGap(covered) <= maxGap
}

// longestGap returns the longest run of uncovered seconds.
func longestGap(covered []bool) int {
	longest, run := 0, 0
	for _, c := range covered {
		if c {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	return longest
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
