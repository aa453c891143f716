package domain

import (
	"fmt"
	"strings"
	"time"
)

// Scan budget bounds.
const (
	// DefaultScanBudget is how long discovery keeps launching passes.
	DefaultScanBudget = 10 * time.Second

	// MinScanBudget is the shortest accepted discovery budget.
	MinScanBudget = 5 * time.Second

	// MaxScanBudget is the longest accepted discovery budget.
	MaxScanBudget = 15 * time.Second
)

// ClampScanBudget bounds d to [MinScanBudget, MaxScanBudget].
// A zero or negative budget selects DefaultScanBudget.
func ClampScanBudget(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultScanBudget
	case d < MinScanBudget:
		return MinScanBudget
	case d > MaxScanBudget:
		return MaxScanBudget
	default:
		return d
	}
}

// AccountFilterMode selects how clip creators are filtered.
type AccountFilterMode string

const (
	// AccountFilterNone keeps every clip.
	AccountFilterNone AccountFilterMode = "none"

	// AccountFilterWhitelist keeps only clips created by the named accounts.
	AccountFilterWhitelist AccountFilterMode = "whitelist"

	// AccountFilterBlacklist drops clips created by the named accounts.
	AccountFilterBlacklist AccountFilterMode = "blacklist"
)

// ParseAccountFilterMode parses a mode name. An empty string means none.
func ParseAccountFilterMode(s string) (AccountFilterMode, error) {
	switch AccountFilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AccountFilterNone:
		return AccountFilterNone, nil
	case AccountFilterWhitelist:
		return AccountFilterWhitelist, nil
	case AccountFilterBlacklist:
		return AccountFilterBlacklist, nil
	default:
		return "", fmt.Errorf("%w: unknown account filter mode %q", ErrInvalidInput, s)
	}
}

// QueryShape identifies a discovery request.
// Two shapes are equal when every field matches, with AccountNames
// compared as an unordered set.
type QueryShape struct {
	// ChannelID is the broadcaster whose clips are listed.
	ChannelID string `json:"channel_id"`

	// Start and End bound clip creation time.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// AccountMode and AccountNames configure the account filter.
	AccountMode  AccountFilterMode `json:"account_mode"`
	AccountNames []string          `json:"account_names"`

	// MaxGap is the largest tolerated uncovered run, in seconds, inside a
	// clip that is otherwise redundant.
	MaxGap int `json:"max_gap"`

	// CoverageThreshold is the covered fraction at which a clip becomes a
	// removal candidate. Must be in (0, 1].
	CoverageThreshold float64 `json:"coverage_threshold"`
}

// Equal reports whether two shapes describe the same request.
func (q QueryShape) Equal(o QueryShape) bool {
	return q.ChannelID == o.ChannelID &&
		q.Start.Equal(o.Start) &&
		q.End.Equal(o.End) &&
		q.AccountMode == o.AccountMode &&
		q.MaxGap == o.MaxGap &&
		q.CoverageThreshold == o.CoverageThreshold &&
		sameNameSet(q.AccountNames, o.AccountNames)
}

func sameNameSet(a, b []string) bool {
	as, bs := NameSet(a), NameSet(b)
	if len(as) != len(bs) {
		return false
	}
	for name := range as {
		if _, ok := bs[name]; !ok {
			return false
		}
	}
	return true
}

// NameSet converts a name list into a set, ignoring duplicates.
func NameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Validate checks the shape before any upstream call.
// now is the reference time for rejecting future end bounds.
func (q QueryShape) Validate(now time.Time) error {
	if strings.TrimSpace(q.ChannelID) == "" {
		return fmt.Errorf("%w: channel is required", ErrInvalidInput)
	}
	if q.Start.IsZero() || q.End.IsZero() {
		return fmt.Errorf("%w: both start and end dates are required", ErrInvalidInput)
	}
	if q.End.Before(q.Start) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}
	if q.End.After(now) {
		return fmt.Errorf("%w: end date is in the future", ErrInvalidInput)
	}
	switch q.AccountMode {
	case "", AccountFilterNone, AccountFilterWhitelist, AccountFilterBlacklist:
	default:
		return fmt.Errorf("%w: unknown account filter mode %q", ErrInvalidInput, q.AccountMode)
	}
	if q.CoverageThreshold <= 0 || q.CoverageThreshold > 1 {
		return fmt.Errorf("%w: coverage threshold must be in (0, 1], got %v", ErrInvalidInput, q.CoverageThreshold)
	}
	if q.MaxGap < 0 {
		return fmt.Errorf("%w: max gap must not be negative, got %d", ErrInvalidInput, q.MaxGap)
	}
	return nil
}
