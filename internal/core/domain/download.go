package domain

// ResolveBatchSize is the most clip IDs the upstream accepts per
// download URL resolution request.
const ResolveBatchSize = 10

// ResolveContext carries the identities the upstream needs to hand out
// download URLs.
type ResolveContext struct {
	// ChannelID is the broadcaster that owns the clips.
	ChannelID string

	// EditorID is the account requesting the downloads. It must be the
	// broadcaster or one of their editors.
	EditorID string
}

// DownloadReport summarises one download run.
type DownloadReport struct {
	// Succeeded counts clips whose transfer completed.
	Succeeded int

	// Failed counts clips that failed to resolve or transfer.
	Failed int

	// FailedIDs lists the failed clip IDs in ascending order.
	FailedIDs []string
}
