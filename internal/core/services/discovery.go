package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
	"github.com/custodia-labs/clipper/internal/logger"
)

// DefaultPassStagger is the delay between successive discovery passes.
const DefaultPassStagger = 500 * time.Millisecond

// DiscoveryScanner lists a channel's clips with repeated, overlapping passes.
//
// The upstream orders clips by view count, which changes while a listing is
// paged through, so a single pass can miss clips that move between pages.
// The scanner keeps launching independent passes for the length of its
// budget and merges everything they observe.
type DiscoveryScanner struct {
	lister   driven.ClipLister
	stagger  time.Duration
	metrics  driven.MetricsRecorder
	progress driven.ProgressSink
}

// NewDiscoveryScanner creates a scanner over lister.
// A non-positive stagger selects DefaultPassStagger.
func NewDiscoveryScanner(lister driven.ClipLister, stagger time.Duration) *DiscoveryScanner {
	if stagger <= 0 {
		stagger = DefaultPassStagger
	}
	return &DiscoveryScanner{
		lister:  lister,
		stagger: stagger,
	}
}

// SetMetrics installs an optional metrics recorder.
func (s *DiscoveryScanner) SetMetrics(m driven.MetricsRecorder) {
	s.metrics = m
}

// SetProgress installs an optional progress sink. It receives
// AuthExpiredNotice as soon as the first failing pass is rejected for its
// access token, while other passes may still be running.
func (s *DiscoveryScanner) SetProgress(p driven.ProgressSink) {
	s.progress = p
}

// Discover returns every clip observed for the channel and date range.
//
// Pass N starts N staggers after the call began, as long as that is still
// inside budget. Passes are never cancelled by the budget: once it expires
// no new pass starts and the call waits for the running ones. If any pass
// fails the call returns its error and no clips; no new passes start after
// a failure.
func (s *DiscoveryScanner) Discover(
	ctx context.Context,
	channelID string,
	start, end time.Time,
	budget time.Duration,
) ([]domain.Clip, error) {
	req := driven.ListRequest{ChannelID: channelID, Start: start, End: end}
	seen := newClipSet()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}
	launch := func(n int) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.runPass(ctx, n, req, seen); err != nil {
				mu.Lock()
				first := firstErr == nil
				if first {
					firstErr = err
				}
				mu.Unlock()
				if first && errors.Is(err, domain.ErrAuthExpired) && s.progress != nil {
					s.progress.Notify(AuthExpiredNotice)
				}
			}
		}()
	}

	began := time.Now()
	logger.Section("Discovery")
	logger.Debug("channel=%s range=%s..%s budget=%s stagger=%s",
		channelID, start.Format(time.RFC3339), end.Format(time.RFC3339), budget, s.stagger)

	launch(0)
	passes := 1

	ticker := time.NewTicker(s.stagger)
	defer ticker.Stop()
	deadline := time.NewTimer(budget)
	defer deadline.Stop()

schedule:
	for {
		select {
		case <-ctx.Done():
			break schedule
		case <-deadline.C:
			break schedule
		case <-ticker.C:
			if time.Since(began) >= budget || failed() {
				break schedule
			}
			launch(passes)
			passes++
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clips := seen.clips()
	logger.Info("Discovery finished: %d passes, %d unique clips in %s",
		passes, len(clips), time.Since(began).Round(time.Millisecond))
	return clips, nil
}

// runPass pages through the listing once, merging records into seen.
func (s *DiscoveryScanner) runPass(ctx context.Context, n int, req driven.ListRequest, seen *clipSet) (err error) {
	pages, fresh := 0, 0
	if s.metrics != nil {
		defer func() { s.metrics.DiscoveryPass(pages, err) }()
	}
	for {
		page, err := s.lister.ListClips(ctx, req)
		if err != nil {
			return fmt.Errorf("discovery pass %d, page %d: %w", n, pages+1, err)
		}
		pages++
		fresh += seen.addAll(page.Clips)

		if page.NextCursor == "" {
			break
		}
		if page.NextCursor == req.Cursor {
			logger.Warn("discovery pass %d: upstream repeated cursor, stopping pass", n)
			break
		}
		req.Cursor = page.NextCursor
	}

	logger.Debug("discovery pass %d: %d pages, %d new clips", n, pages, fresh)
	return nil
}

// clipSet deduplicates clips by ID. The first observation of an ID wins.
type clipSet struct {
	mu   sync.Mutex
	byID map[string]domain.Clip
}

func newClipSet() *clipSet {
	return &clipSet{byID: make(map[string]domain.Clip)}
}

// addAll inserts clips not seen before and returns how many were new.
func (s *clipSet) addAll(clips []domain.Clip) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, c := range clips {
		if _, ok := s.byID[c.ID]; ok {
			continue
		}
		s.byID[c.ID] = c
		added++
	}
	return added
}

// clips returns the set in creation order.
func (s *clipSet) clips() []domain.Clip {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Clip, 0, len(s.byID))
	for _, c := range s.byID {
		result = append(result, c)
	}
	domain.SortClips(result)
	return result
}
