// Package connectors holds the upstream platform integrations. Each
// subpackage implements the clip listing and download resolution ports
// for one platform.
//
//   - twitch: Twitch Helix API
package connectors
