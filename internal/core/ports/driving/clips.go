package driving

import (
	"context"

	"github.com/custodia-labs/clipper/internal/core/domain"
)

// ClipService discovers, filters and downloads a channel's clips.
// Only one Scan or DownloadRange call may run at a time.
type ClipService interface {
	// Scan discovers and filters clips without downloading them.
	Scan(ctx context.Context, query domain.QueryShape) (*ScanResult, error)

	// DownloadRange discovers, filters and downloads clips into outputDir.
	DownloadRange(ctx context.Context, query domain.QueryShape, editorID, outputDir string) (*DownloadResult, error)
}

// ScanResult summarises a scan.
type ScanResult struct {
	// ClipCount is the number of clips left after all filtering.
	ClipCount int `json:"clip_count"`

	// OriginalCount is the number of clips discovered before any filtering.
	OriginalCount int `json:"original_count"`

	// TotalDurationSeconds sums the durations of the remaining clips.
	TotalDurationSeconds float64 `json:"total_duration_seconds"`

	// EstimatedBytes is a rough download size for the remaining clips.
	EstimatedBytes int64 `json:"estimated_bytes"`

	// PartialFiltering is true when some clips could not be checked for
	// redundancy because their timeline offset is unknown.
	PartialFiltering bool `json:"partial_filtering"`

	// UnknownOffsetCount is the number of such clips.
	UnknownOffsetCount int `json:"unknown_offset_count"`

	// CacheHit is true when the clips came from the discovery cache.
	CacheHit bool `json:"cache_hit"`

	// Clips are the remaining clips, in creation order.
	Clips []domain.Clip `json:"clips"`
}

// DownloadResult summarises a download run.
type DownloadResult struct {
	// ClipCount is the number of clips selected for download.
	ClipCount int `json:"clip_count"`

	// OriginalCount is the number of clips discovered before any filtering.
	OriginalCount int `json:"original_count"`

	// TotalDurationSeconds sums the durations of the selected clips.
	TotalDurationSeconds float64 `json:"total_duration_seconds"`

	// DownloadedCount is the number of completed transfers.
	DownloadedCount int `json:"downloaded_count"`

	// FailedCount is the number of clips that could not be downloaded.
	FailedCount int `json:"failed_count"`

	// FailedIDs lists the failed clip IDs in ascending order.
	FailedIDs []string `json:"failed_ids"`
}
