// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ClipLister: Pages through a channel's clips for a date range
//   - DownloadResolver: Resolves direct download URLs for clip batches
//   - TransferService: Executes a single file transfer
//   - DiscoveryCache: Single-slot memo of the latest discovery result
//   - TokenProvider: Access tokens for upstream API calls
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ProgressSink: Human-readable status notifications. Nil drops them.
//   - MetricsRecorder: Operational counters. Nil disables them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
