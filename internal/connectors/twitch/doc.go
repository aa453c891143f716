// Package twitch implements the clip listing and download resolution ports
// against the Twitch Helix API.
//
// # Components
//
//   - Client: authenticated HTTP access with rate limiting and retries
//   - RateLimiter: proactive token bucket plus reactive Ratelimit-* headers
//   - ListClips: one page of GET /helix/clips for a broadcaster and date range
//   - ResolveDownloads: GET /helix/clips/downloads for up to ten clip IDs
//
// # Authentication
//
// Requests carry a user access token as a bearer credential and the
// application's Client-Id header. Tokens are obtained outside clipper and
// supplied through a [driven.TokenProvider]. A 401 response is reported as
// [domain.ErrAuthExpired] and never retried.
//
// # Rate Limiting
//
// Helix grants a per-minute point bucket. The client throttles itself with a
// token bucket sized from configuration and additionally watches
// Ratelimit-Remaining and Ratelimit-Reset, pausing until the reset when the
// bucket is nearly empty.
//
// # Error Handling
//
// Network failures, 429 responses and any other non-2xx status are retried
// up to MaxRetries times with exponential backoff starting at RetryDelay.
// When retries are exhausted the last error is returned wrapped in
// [domain.ErrTransientUpstream].
package twitch
