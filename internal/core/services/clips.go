package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
	"github.com/custodia-labs/clipper/internal/core/ports/driving"
	"github.com/custodia-labs/clipper/internal/logger"
)

// AuthExpiredNotice is the progress message sent when the upstream rejects
// the access token.
const AuthExpiredNotice = "Authentication expired: obtain a new access token and try again"

// Ensure ClipService implements the interface.
var _ driving.ClipService = (*ClipService)(nil)

// ClipService ties discovery, filtering, caching and downloading together.
type ClipService struct {
	scanner    *DiscoveryScanner
	downloader *DownloadOrchestrator
	cache      driven.DiscoveryCache
	progress   driven.ProgressSink
	metrics    driven.MetricsRecorder
	budget     time.Duration
	now        func() time.Time

	mu   sync.Mutex
	busy bool
}

// NewClipService creates a clip service.
// budget is clamped via domain.ClampScanBudget. progress is optional and is
// shared with the scanner.
func NewClipService(
	scanner *DiscoveryScanner,
	downloader *DownloadOrchestrator,
	cache driven.DiscoveryCache,
	progress driven.ProgressSink,
	budget time.Duration,
) *ClipService {
	if scanner != nil {
		scanner.SetProgress(progress)
	}
	return &ClipService{
		scanner:    scanner,
		downloader: downloader,
		cache:      cache,
		progress:   progress,
		budget:     domain.ClampScanBudget(budget),
		now:        time.Now,
	}
}

// SetMetrics installs an optional metrics recorder on the service and the
// scanner and downloader it drives.
func (s *ClipService) SetMetrics(m driven.MetricsRecorder) {
	s.metrics = m
	s.scanner.SetMetrics(m)
	s.downloader.SetMetrics(m)
}

// Scan discovers and filters clips without downloading them.
func (s *ClipService) Scan(ctx context.Context, query domain.QueryShape) (*driving.ScanResult, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	sel, err := s.selectClips(ctx, query)
	if err != nil {
		return nil, err
	}

	total := domain.TotalDuration(sel.clips)
	return &driving.ScanResult{
		ClipCount:            len(sel.clips),
		OriginalCount:        sel.originalCount,
		TotalDurationSeconds: total,
		EstimatedBytes:       domain.EstimateBytes(total),
		PartialFiltering:     sel.unknownOffset > 0,
		UnknownOffsetCount:   sel.unknownOffset,
		CacheHit:             sel.cacheHit,
		Clips:                sel.clips,
	}, nil
}

// DownloadRange discovers, filters and downloads clips into outputDir.
func (s *ClipService) DownloadRange(
	ctx context.Context,
	query domain.QueryShape,
	editorID, outputDir string,
) (*driving.DownloadResult, error) {
	if editorID == "" {
		return nil, fmt.Errorf("%w: editor ID is required", domain.ErrInvalidInput)
	}
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	sel, err := s.selectClips(ctx, query)
	if err != nil {
		return nil, err
	}

	result := &driving.DownloadResult{
		ClipCount:            len(sel.clips),
		OriginalCount:        sel.originalCount,
		TotalDurationSeconds: domain.TotalDuration(sel.clips),
	}
	if len(sel.clips) == 0 {
		s.notify("No clips to download")
		return result, nil
	}

	s.notify(fmt.Sprintf("Downloading %d clips...", len(sel.clips)))
	report := s.downloader.Download(ctx, sel.clips, domain.ResolveContext{
		ChannelID: query.ChannelID,
		EditorID:  editorID,
	}, outputDir)

	result.DownloadedCount = report.Succeeded
	result.FailedCount = report.Failed
	result.FailedIDs = report.FailedIDs
	return result, nil
}

// selection is the filtered clip set for a query.
type selection struct {
	clips         []domain.Clip
	originalCount int
	unknownOffset int
	cacheHit      bool
}

// selectClips validates the query, discovers clips (or reuses the cached
// discovery), and applies the account and redundancy filters.
func (s *ClipService) selectClips(ctx context.Context, query domain.QueryShape) (*selection, error) {
	if err := query.Validate(s.now()); err != nil {
		return nil, err
	}

	sel := &selection{}
	var accounts []domain.Clip

	entry, hit := s.cache.Lookup(query)
	if s.metrics != nil {
		s.metrics.CacheLookup(hit)
	}
	if hit {
		logger.Debug("discovery cache hit: %d clips", len(entry.Clips))
		accounts = entry.Clips
		sel.originalCount = entry.OriginalCount
		sel.cacheHit = true
	} else {
		s.notify("Scanning clips...")
		discovered, err := s.scanner.Discover(ctx, query.ChannelID, query.Start, query.End, s.budget)
		if err != nil {
			return nil, fmt.Errorf("discover clips: %w", err)
		}
		sel.originalCount = len(discovered)
		accounts = ApplyAccountFilter(discovered, query.AccountMode, query.AccountNames)
		s.cache.Store(query, accounts, sel.originalCount)
	}

	filtered := FilterRedundant(accounts, query.MaxGap, query.CoverageThreshold)
	domain.SortClips(filtered.Kept)

	sel.clips = filtered.Kept
	sel.unknownOffset = filtered.UnknownOffset

	if s.metrics != nil {
		s.metrics.Selection(sel.originalCount, len(sel.clips), filtered.Removed, filtered.UnknownOffset)
	}
	logger.Info("Selected %d of %d clips (%d redundant, %d without offset)",
		len(sel.clips), sel.originalCount, filtered.Removed, filtered.UnknownOffset)
	s.notify(fmt.Sprintf("Found %d clips (%d discovered)", len(sel.clips), sel.originalCount))
	if filtered.PartialFiltering() {
		s.notify(fmt.Sprintf("%d clips have no timeline offset and were not filtered", filtered.UnknownOffset))
	}
	return sel, nil
}

// acquire marks the service busy. Only one operation may run at a time.
func (s *ClipService) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrOperationInProgress
	}
	s.busy = true
	return nil
}

func (s *ClipService) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

func (s *ClipService) notify(status string) {
	if s.progress != nil {
		s.progress.Notify(status)
	}
}
