package twitch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
)

// PageSize is the number of clips requested per listing page (Helix maximum).
const PageSize = 100

// Ensure Client implements the listing port.
var _ driven.ClipLister = (*Client)(nil)

// helixClip is a clip record as returned by GET /clips.
type helixClip struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	BroadcasterID string   `json:"broadcaster_id"`
	CreatorName   string   `json:"creator_name"`
	VideoID       string   `json:"video_id"`
	GameID        string   `json:"game_id"`
	Title         string   `json:"title"`
	ViewCount     int      `json:"view_count"`
	CreatedAt     string   `json:"created_at"`
	Duration      float64  `json:"duration"`
	VODOffset     *float64 `json:"vod_offset"`
}

type pagination struct {
	Cursor string `json:"cursor"`
}

type clipsResponse struct {
	Data       []helixClip `json:"data"`
	Pagination pagination  `json:"pagination"`
}

// ListClips fetches one page of a broadcaster's clips created in [Start, End].
func (c *Client) ListClips(ctx context.Context, req driven.ListRequest) (*driven.ClipPage, error) {
	if req.ChannelID == "" {
		return nil, fmt.Errorf("%w: broadcaster ID is required", domain.ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("broadcaster_id", req.ChannelID)
	query.Set("first", strconv.Itoa(PageSize))
	if !req.Start.IsZero() {
		query.Set("started_at", req.Start.UTC().Format(time.RFC3339))
	}
	if !req.End.IsZero() {
		query.Set("ended_at", req.End.UTC().Format(time.RFC3339))
	}
	if req.Cursor != "" {
		query.Set("after", req.Cursor)
	}

	var resp clipsResponse
	if err := c.getJSON(ctx, "/clips", query, &resp); err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}

	page := &driven.ClipPage{
		Clips:      make([]domain.Clip, 0, len(resp.Data)),
		NextCursor: resp.Pagination.Cursor,
	}
	for _, hc := range resp.Data {
		page.Clips = append(page.Clips, hc.toDomain())
	}
	return page, nil
}

func (hc helixClip) toDomain() domain.Clip {
	clip := domain.Clip{
		ID:        hc.ID,
		Creator:   hc.CreatorName,
		Title:     hc.Title,
		Duration:  hc.Duration,
		GameID:    hc.GameID,
		VideoID:   hc.VideoID,
		URL:       hc.URL,
		ViewCount: hc.ViewCount,
	}
	if t, err := time.Parse(time.RFC3339, hc.CreatedAt); err == nil {
		clip.CreatedAt = t
	}
	if hc.VODOffset != nil {
		off := *hc.VODOffset
		clip.Offset = &off
	}
	return clip
}
