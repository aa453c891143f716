package driven

// ProgressSink receives human-readable status updates.
// Notify must never block; updates the receiver is not ready for are dropped.
type ProgressSink interface {
	Notify(status string)
}
