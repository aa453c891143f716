// Package transfer provides driven.TransferService implementations.
package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
	"github.com/custodia-labs/clipper/internal/logger"
)

const (
	// DefaultMaxParallel is the number of concurrent transfers when unset.
	DefaultMaxParallel = 4

	// DefaultTimeout bounds a single transfer.
	DefaultTimeout = 5 * time.Minute
)

// Ensure HTTPTransfer implements the interface.
var _ driven.TransferService = (*HTTPTransfer)(nil)

// HTTPTransfer downloads URLs to local files over HTTP.
// Data is written to a temporary file next to the destination and renamed
// into place once complete, so a destination path never holds a partial file.
type HTTPTransfer struct {
	client *http.Client
	sem    chan struct{}
}

// NewHTTPTransfer creates a transfer service running at most maxParallel
// transfers at once. client may be nil.
func NewHTTPTransfer(client *http.Client, maxParallel int) *HTTPTransfer {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallel
	}
	return &HTTPTransfer{
		client: client,
		sem:    make(chan struct{}, maxParallel),
	}
}

// Transfer downloads url to destPath.
//
// Returns TransferComplete on success. A non-2xx response or a failure while
// writing returns TransferInterrupted together with the cause. Waiting for a
// free slot honours ctx.
func (t *HTTPTransfer) Transfer(ctx context.Context, url, destPath string) (domain.TransferState, error) {
	select {
	case t.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-t.sem }()

	if err := t.fetch(ctx, url, destPath); err != nil {
		return domain.TransferInterrupted, err
	}
	return domain.TransferComplete, nil
}

func (t *HTTPTransfer) fetch(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", filepath.Base(destPath), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("get %s: unexpected status %d", filepath.Base(destPath), resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmpPath := destPath + ".part-" + uuid.NewString()
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	written, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr == nil && resp.ContentLength >= 0 && written != resp.ContentLength {
		copyErr = fmt.Errorf("short body: got %d of %d bytes", written, resp.ContentLength)
	}
	if copyErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", filepath.Base(destPath), copyErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", filepath.Base(destPath), err)
	}

	logger.Debug("transferred %s (%d bytes)", filepath.Base(destPath), written)
	return nil
}
