// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Components:
//   - DiscoveryScanner: budgeted concurrent passes over the clip listing
//   - ApplyAccountFilter: whitelist/blacklist on clip creators
//   - FilterRedundant: interval coverage based redundancy filter
//   - DownloadOrchestrator: batched URL resolution and parallel transfers
//   - ClipService: ties the above together behind driving.ClipService
package services
