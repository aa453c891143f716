// Package domain defines the core business entities for clipper.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Clip: A short recording anchored at an offset in a stream recording
//   - Interval: The half-open, whole-second span a clip occupies
//   - QueryShape: The parameter tuple identifying a cacheable discovery
//   - DownloadResolution: Transfer URLs resolved for a clip
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
