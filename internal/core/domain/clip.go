package domain

import (
	"math"
	"sort"
	"time"
)

// MaxClipDuration is the longest duration, in seconds, a single clip can have.
// Two clips whose offsets differ by more than this cannot overlap.
const MaxClipDuration = 60

// EstimatedBytesPerSecond is the empirical average size of downloaded clip
// media per second of footage. It is measured offline across a reference
// clip collection and only used for rough size estimates.
const EstimatedBytesPerSecond = 850_000

// Clip is a short recording belonging to a channel.
// Clips are immutable once discovered.
type Clip struct {
	// ID is the opaque, unique clip identifier.
	ID string `json:"id"`

	// Creator is the login of the account that created the clip.
	Creator string `json:"creator"`

	// Title is the display title.
	Title string `json:"title"`

	// Duration is the clip length in seconds.
	Duration float64 `json:"duration"`

	// CreatedAt is when the clip was created.
	CreatedAt time.Time `json:"created_at"`

	// Offset is the position, in seconds, of the clip inside its parent
	// stream recording. Nil when the upstream does not know it.
	Offset *float64 `json:"offset"`

	// GameID identifies the category the clip was recorded under. Optional.
	GameID string `json:"game_id,omitempty"`

	// VideoID identifies the parent stream recording. Optional.
	VideoID string `json:"video_id,omitempty"`

	// URL is the public page for the clip.
	URL string `json:"url"`

	// ViewCount is the view count at the time of observation.
	ViewCount int `json:"view_count"`
}

// HasOffset reports whether the clip's timeline offset is known.
func (c Clip) HasOffset() bool {
	return c.Offset != nil
}

// Interval returns the whole-second span the clip occupies on its stream
// timeline. Offset and duration are floored independently. The second return
// value is false when the offset is unknown.
func (c Clip) Interval() (Interval, bool) {
	if c.Offset == nil {
		return Interval{}, false
	}
	start := int(math.Floor(*c.Offset))
	return Interval{Start: start, End: start + c.WholeSeconds()}, true
}

// WholeSeconds returns the duration floored to whole seconds.
func (c Clip) WholeSeconds() int {
	if c.Duration <= 0 {
		return 0
	}
	return int(math.Floor(c.Duration))
}

// Interval is a half-open range [Start, End) of whole seconds.
type Interval struct {
	Start int
	End   int
}

// Len returns the number of seconds in the interval.
func (i Interval) Len() int {
	if i.End <= i.Start {
		return 0
	}
	return i.End - i.Start
}

// Overlaps reports whether two intervals share at least one second.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// SortClips orders clips by creation time, then by offset (unknown offsets
// sort as zero), then by ID.
func SortClips(clips []Clip) {
	sort.SliceStable(clips, func(a, b int) bool {
		ca, cb := clips[a], clips[b]
		if !ca.CreatedAt.Equal(cb.CreatedAt) {
			return ca.CreatedAt.Before(cb.CreatedAt)
		}
		oa, ob := offsetOrZero(ca), offsetOrZero(cb)
		if oa != ob {
			return oa < ob
		}
		return ca.ID < cb.ID
	})
}

func offsetOrZero(c Clip) float64 {
	if c.Offset == nil {
		return 0
	}
	return *c.Offset
}

// TotalDuration sums the durations of the given clips in seconds.
func TotalDuration(clips []Clip) float64 {
	var total float64
	for _, c := range clips {
		if c.Duration > 0 {
			total += c.Duration
		}
	}
	return total
}

// EstimateBytes returns the estimated download size for the given seconds of
// footage.
func EstimateBytes(seconds float64) int64 {
	return int64(seconds * EstimatedBytesPerSecond)
}

// DownloadResolution holds the transfer URLs resolved for a clip.
type DownloadResolution struct {
	// ClipID identifies the clip.
	ClipID string

	// PrimaryURL is the landscape rendition. Empty when absent.
	PrimaryURL string

	// SecondaryURL is the portrait rendition. Empty when absent.
	SecondaryURL string
}

// PreferredURL returns the primary URL, falling back to the secondary one.
// Returns false if neither is present.
func (r DownloadResolution) PreferredURL() (string, bool) {
	if r.PrimaryURL != "" {
		return r.PrimaryURL, true
	}
	if r.SecondaryURL != "" {
		return r.SecondaryURL, true
	}
	return "", false
}

// TransferState is the terminal state reported by a transfer.
type TransferState string

const (
	// TransferComplete means the file was fully written.
	TransferComplete TransferState = "complete"

	// TransferInterrupted means the transfer ended without a usable file.
	TransferInterrupted TransferState = "interrupted"
)
