package twitch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
)

// Ensure Client implements the resolution port.
var _ driven.DownloadResolver = (*Client)(nil)

type helixDownload struct {
	ClipID               string `json:"clip_id"`
	LandscapeDownloadURL string `json:"landscape_download_url"`
	PortraitDownloadURL  string `json:"portrait_download_url"`
}

type downloadsResponse struct {
	Data []helixDownload `json:"data"`
}

// ResolveDownloads fetches download URLs for up to domain.ResolveBatchSize clips.
// The editor must have editor rights on the broadcaster's channel.
func (c *Client) ResolveDownloads(
	ctx context.Context,
	clipIDs []string,
	rc domain.ResolveContext,
) ([]domain.DownloadResolution, error) {
	switch {
	case len(clipIDs) == 0:
		return nil, nil
	case len(clipIDs) > domain.ResolveBatchSize:
		return nil, fmt.Errorf("%w: at most %d clip IDs per request, got %d",
			errBadRequest, domain.ResolveBatchSize, len(clipIDs))
	case rc.ChannelID == "" || rc.EditorID == "":
		return nil, fmt.Errorf("%w: broadcaster and editor IDs are required", errBadRequest)
	}

	query := url.Values{}
	query.Set("broadcaster_id", rc.ChannelID)
	query.Set("editor_id", rc.EditorID)
	for _, id := range clipIDs {
		query.Add("clip_id", id)
	}

	var resp downloadsResponse
	if err := c.getJSON(ctx, "/clips/downloads", query, &resp); err != nil {
		return nil, fmt.Errorf("resolve downloads: %w", err)
	}

	out := make([]domain.DownloadResolution, 0, len(resp.Data))
	for _, d := range resp.Data {
		out = append(out, domain.DownloadResolution{
			ClipID:       d.ClipID,
			PrimaryURL:   d.LandscapeDownloadURL,
			SecondaryURL: d.PortraitDownloadURL,
		})
	}
	return out, nil
}
