package driven

import "github.com/custodia-labs/clipper/internal/core/domain"

// MetricsRecorder receives operational counters from the core services.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	// DiscoveryPass records one finished discovery pass and the pages it read.
	DiscoveryPass(pages int, err error)

	// CacheLookup records a discovery cache lookup.
	CacheLookup(hit bool)

	// Selection records the clip counts of a finished selection.
	Selection(discovered, kept, redundant, unknownOffset int)

	// Transfer records the outcome for one clip. An empty state means the
	// clip never reached a transfer because no download URL was resolved.
	Transfer(state domain.TransferState)
}
