package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipper/internal/core/domain"
)

// Defaults for the redundancy filter flags.
const (
	DefaultMaxGap            = 2
	DefaultCoverageThreshold = 0.9
)

const dateLayout = "2006-01-02"

// queryFlags holds the flags shared by scan and download.
type queryFlags struct {
	channel   string
	start     string
	end       string
	mode      string
	accounts  []string
	maxGap    int
	threshold float64
	budget    time.Duration
}

func (f *queryFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.channel, "channel", "c", "", "broadcaster ID whose clips are listed (required)")
	fs.StringVar(&f.start, "start", "", "earliest clip creation time, RFC 3339 or YYYY-MM-DD (required)")
	fs.StringVar(&f.end, "end", "", "latest clip creation time, RFC 3339 or YYYY-MM-DD (required)")
	fs.StringVar(&f.mode, "mode", string(domain.AccountFilterNone), "account filter: none, whitelist or blacklist")
	fs.StringSliceVar(&f.accounts, "accounts", nil, "account names for the whitelist or blacklist")
	fs.IntVar(&f.maxGap, "max-gap", DefaultMaxGap, "largest uncovered run in seconds a redundant clip may have")
	fs.Float64Var(&f.threshold, "threshold", DefaultCoverageThreshold, "covered fraction at which a clip is redundant")
	fs.DurationVar(&f.budget, "budget", 0, "discovery time budget, 5s to 15s (default from config)")
}

func (f *queryFlags) reset() {
	*f = queryFlags{
		mode:      string(domain.AccountFilterNone),
		maxGap:    DefaultMaxGap,
		threshold: DefaultCoverageThreshold,
	}
}

// shape builds the query. Validation of the finished shape is left to the
// service so every caller gets the same checks.
func (f *queryFlags) shape(now time.Time) (domain.QueryShape, error) {
	start, err := parseBound(f.start, false, now)
	if err != nil {
		return domain.QueryShape{}, fmt.Errorf("--start: %w", err)
	}
	end, err := parseBound(f.end, true, now)
	if err != nil {
		return domain.QueryShape{}, fmt.Errorf("--end: %w", err)
	}
	mode, err := domain.ParseAccountFilterMode(f.mode)
	if err != nil {
		return domain.QueryShape{}, err
	}

	names := make([]string, 0, len(f.accounts))
	for _, a := range f.accounts {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}

	return domain.QueryShape{
		ChannelID:         strings.TrimSpace(f.channel),
		Start:             start,
		End:               end,
		AccountMode:       mode,
		AccountNames:      names,
		MaxGap:            f.maxGap,
		CoverageThreshold: f.threshold,
	}, nil
}

// parseBound accepts RFC 3339 or a local calendar date. A date used as an
// end bound covers the whole day, clamped to now so today is accepted.
func parseBound(value string, endOfDay bool, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not RFC 3339 or YYYY-MM-DD", domain.ErrInvalidInput, value)
	}
	if !endOfDay {
		return day, nil
	}
	end := day.AddDate(0, 0, 1).Add(-time.Second)
	if end.After(now) && !day.After(now) {
		end = now
	}
	return end, nil
}
