package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
	"github.com/custodia-labs/clipper/internal/logger"
)

// DownloadOrchestrator resolves download URLs for clips and transfers them.
type DownloadOrchestrator struct {
	resolver  driven.DownloadResolver
	transfers driven.TransferService
	progress  driven.ProgressSink
	metrics   driven.MetricsRecorder
}

// NewDownloadOrchestrator creates a download orchestrator.
// progress is optional.
func NewDownloadOrchestrator(
	resolver driven.DownloadResolver,
	transfers driven.TransferService,
	progress driven.ProgressSink,
) *DownloadOrchestrator {
	return &DownloadOrchestrator{
		resolver:  resolver,
		transfers: transfers,
		progress:  progress,
	}
}

// SetMetrics installs an optional metrics recorder.
func (o *DownloadOrchestrator) SetMetrics(m driven.MetricsRecorder) {
	o.metrics = m
}

// Download resolves and transfers clips into outputDir.
//
// URLs are resolved in sequential batches of domain.ResolveBatchSize. A
// failed batch marks all of its clips failed and the next batch proceeds.
// A rejected access token is reported once through the progress sink.
// Resolved clips are then transferred concurrently; the transfer service
// decides how many run at once. Failures are reported per clip, never as
// an error.
func (o *DownloadOrchestrator) Download(
	ctx context.Context,
	clips []domain.Clip,
	rc domain.ResolveContext,
	outputDir string,
) domain.DownloadReport {
	defer logger.Timed(fmt.Sprintf("download of %d clips", len(clips)))()

	var (
		failed       []string
		authNotified bool
	)
	urls := make(map[string]string, len(clips))

	for start := 0; start < len(clips); start += domain.ResolveBatchSize {
		batch := clips[start:min(start+domain.ResolveBatchSize, len(clips))]
		ids := make([]string, len(batch))
		for i, c := range batch {
			ids[i] = c.ID
		}

		resolutions, err := o.resolver.ResolveDownloads(ctx, ids, rc)
		if err != nil {
			logger.Warn("resolve batch %d-%d: %v", start+1, start+len(batch), err)
			if errors.Is(err, domain.ErrAuthExpired) && !authNotified {
				o.notify(AuthExpiredNotice)
				authNotified = true
			}
			failed = append(failed, ids...)
			o.record("", len(ids))
			o.notify(fmt.Sprintf("Collected %d of %d download URLs", len(urls), len(clips)))
			continue
		}

		byID := make(map[string]domain.DownloadResolution, len(resolutions))
		for _, r := range resolutions {
			byID[r.ClipID] = r
		}
		for _, id := range ids {
			url, ok := byID[id].PreferredURL()
			if !ok {
				logger.Debug("no download URL for clip %s", id)
				failed = append(failed, id)
				o.record("", 1)
				continue
			}
			urls[id] = url
		}

		o.notify(fmt.Sprintf("Collected %d of %d download URLs", len(urls), len(clips)))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for _, c := range clips {
		url, ok := urls[c.ID]
		if !ok {
			continue
		}

		wg.Add(1)
		go func(c domain.Clip, url string) {
			defer wg.Done()

			dest := filepath.Join(outputDir, ClipFileName(c))
			state, err := o.transfers.Transfer(ctx, url, dest)

			mu.Lock()
			defer mu.Unlock()
			if err != nil || state != domain.TransferComplete {
				logger.Warn("transfer clip %s: state=%q err=%v", c.ID, state, err)
				failed = append(failed, c.ID)
				o.record(domain.TransferInterrupted, 1)
				return
			}
			succeeded++
			o.record(domain.TransferComplete, 1)
		}(c, url)
	}
	wg.Wait()

	sort.Strings(failed)
	o.notify(fmt.Sprintf("Downloaded %d clips, %d failed", succeeded, len(failed)))

	return domain.DownloadReport{
		Succeeded: succeeded,
		Failed:    len(failed),
		FailedIDs: failed,
	}
}

func (o *DownloadOrchestrator) record(state domain.TransferState, n int) {
	if o.metrics == nil {
		return
	}
	for i := 0; i < n; i++ {
		o.metrics.Transfer(state)
	}
}

func (o *DownloadOrchestrator) notify(status string) {
	if o.progress != nil {
		o.progress.Notify(status)
	}
}

// ClipFileName returns the deterministic file name for a clip:
// {date}_{title}_{creator}_{id}.mp4 with the date taken from the creation
// time in UTC and path-illegal characters replaced in each part.
func ClipFileName(c domain.Clip) string {
	return fmt.Sprintf("%s_%s_%s_%s.mp4",
		c.CreatedAt.UTC().Format("2006-01-02"),
		sanitizeFileName(c.Title),
		sanitizeFileName(c.Creator),
		sanitizeFileName(c.ID),
	)
}

// sanitizeFileName replaces characters that are not allowed in file names.
func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, s)
}
