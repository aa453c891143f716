package twitch

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipper/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
)

const clipsPage = `{
  "data": [
    {
      "id": "AwkwardHelplessSalamanderSwiftRage",
      "url": "https://clips.twitch.tv/AwkwardHelplessSalamanderSwiftRage",
      "broadcaster_id": "67955580",
      "creator_name": "viewer_one",
      "video_id": "1234",
      "game_id": "488191",
      "title": "big play",
      "view_count": 10,
      "created_at": "2024-05-01T10:11:12Z",
      "duration": 28.5,
      "vod_offset": 480
    },
    {
      "id": "NoVodClip",
      "creator_name": "viewer_two",
      "video_id": "",
      "title": "orphan",
      "view_count": 3,
      "created_at": "2024-05-01T11:00:00Z",
      "duration": 12,
      "vod_offset": null
    }
  ],
  "pagination": {"cursor": "eyJiIjpudWxsLCJhIjp7Ik9mZnNldCI6MjB9fQ"}
}`

func TestClient_ListClips(t *testing.T) {
	var query map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/helix/clips", r.URL.Path)
		query = r.URL.Query()
		_, _ = w.Write([]byte(clipsPage))
	})

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	page, err := client.ListClips(context.Background(), driven.ListRequest{
		ChannelID: "67955580",
		Start:     start,
		End:       end,
		Cursor:    "prev",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"67955580"}, query["broadcaster_id"])
	assert.Equal(t, []string{"100"}, query["first"])
	assert.Equal(t, []string{"2024-05-01T00:00:00Z"}, query["started_at"])
	assert.Equal(t, []string{"2024-05-02T00:00:00Z"}, query["ended_at"])
	assert.Equal(t, []string{"prev"}, query["after"])

	assert.Equal(t, "eyJiIjpudWxsLCJhIjp7Ik9mZnNldCI6MjB9fQ", page.NextCursor)
	require.Len(t, page.Clips, 2)

	first := page.Clips[0]
	assert.Equal(t, "AwkwardHelplessSalamanderSwiftRage", first.ID)
	assert.Equal(t, "viewer_one", first.Creator)
	assert.Equal(t, "big play", first.Title)
	assert.InDelta(t, 28.5, first.Duration, 1e-9)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 11, 12, 0, time.UTC), first.CreatedAt)
	require.True(t, first.HasOffset())
	assert.InDelta(t, 480.0, *first.Offset, 1e-9)
	assert.Equal(t, "488191", first.GameID)
	assert.Equal(t, 10, first.ViewCount)

	assert.False(t, page.Clips[1].HasOffset())
}

func TestClient_ListClips_FirstPageOmitsCursor(t *testing.T) {
	var hasAfter bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAfter = r.URL.Query()["after"]
		_, _ = w.Write([]byte(`{"data":[],"pagination":{}}`))
	})

	page, err := client.ListClips(context.Background(), driven.ListRequest{ChannelID: "1"})

	require.NoError(t, err)
	assert.False(t, hasAfter)
	assert.Empty(t, page.Clips)
	assert.Empty(t, page.NextCursor)
}

func TestClient_ListClips_RequiresChannel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.ListClips(context.Background(), driven.ListRequest{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_ListClips_AuthExpired(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ListClips(context.Background(), driven.ListRequest{ChannelID: "1"})

	assert.ErrorIs(t, err, domain.ErrAuthExpired)
}

func TestClient_ResolveDownloads(t *testing.T) {
	var query map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/helix/clips/downloads", r.URL.Path)
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"data":[
			{"clip_id":"a","landscape_download_url":"https://cdn/a-l.mp4","portrait_download_url":"https://cdn/a-p.mp4"},
			{"clip_id":"b","landscape_download_url":null,"portrait_download_url":"https://cdn/b-p.mp4"}
		]}`))
	})

	res, err := client.ResolveDownloads(context.Background(), []string{"a", "b"},
		domain.ResolveContext{ChannelID: "chan", EditorID: "ed"})

	require.NoError(t, err)
	assert.Equal(t, []string{"chan"}, query["broadcaster_id"])
	assert.Equal(t, []string{"ed"}, query["editor_id"])
	assert.Equal(t, []string{"a", "b"}, query["clip_id"])

	assert.Equal(t, []domain.DownloadResolution{
		{ClipID: "a", PrimaryURL: "https://cdn/a-l.mp4", SecondaryURL: "https://cdn/a-p.mp4"},
		{ClipID: "b", SecondaryURL: "https://cdn/b-p.mp4"},
	}, res)
}

func TestClient_ResolveDownloads_Limits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})
	rc := domain.ResolveContext{ChannelID: "chan", EditorID: "ed"}

	t.Run("empty batch", func(t *testing.T) {
		res, err := client.ResolveDownloads(context.Background(), nil, rc)
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("too many IDs", func(t *testing.T) {
		ids := make([]string, domain.ResolveBatchSize+1)
		for i := range ids {
			ids[i] = "id"
		}
		_, err := client.ResolveDownloads(context.Background(), ids, rc)
		assert.Error(t, err)
	})

	t.Run("missing editor", func(t *testing.T) {
		_, err := client.ResolveDownloads(context.Background(), []string{"a"}, domain.ResolveContext{ChannelID: "chan"})
		assert.Error(t, err)
	})
}

func TestConfigFromStore(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		driven.ConfigClientID:          " stored-id ",
		driven.ConfigRequestsPerSecond: 4,
	})

	cfg := ConfigFromStore(store, "")
	assert.Equal(t, "stored-id", cfg.ClientID)
	assert.InDelta(t, 4.0, cfg.RequestsPerSecond, 1e-9)

	cfg = ConfigFromStore(store, "env-id")
	assert.Equal(t, "env-id", cfg.ClientID)
}
