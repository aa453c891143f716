package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/clipper/internal/core/domain"
)

// ListRequest asks for one page of a channel's clips.
type ListRequest struct {
	// ChannelID is the broadcaster whose clips are listed.
	ChannelID string

	// Start and End bound clip creation time.
	Start time.Time
	End   time.Time

	// Cursor continues a previous page. Empty requests the first page.
	Cursor string
}

// ClipPage is one page of listing results.
type ClipPage struct {
	// Clips holds the records on this page.
	Clips []domain.Clip

	// NextCursor continues the listing. Empty when there are no more pages.
	NextCursor string
}

// ClipLister pages through the upstream clip listing.
// Implementations apply their own retry policy; an error means the
// request failed for good.
type ClipLister interface {
	ListClips(ctx context.Context, req ListRequest) (*ClipPage, error)
}

// DownloadResolver resolves direct download URLs.
// Implementations apply their own retry policy.
type DownloadResolver interface {
	// ResolveDownloads resolves up to domain.ResolveBatchSize clip IDs.
	// Clips the upstream does not return are simply absent from the result.
	ResolveDownloads(ctx context.Context, clipIDs []string, rc domain.ResolveContext) ([]domain.DownloadResolution, error)
}

// TransferService executes a single file transfer.
type TransferService interface {
	// Transfer downloads url to destPath and reports the terminal state.
	// An empty state or a non-nil error counts as a failed transfer.
	Transfer(ctx context.Context, url, destPath string) (domain.TransferState, error)
}
