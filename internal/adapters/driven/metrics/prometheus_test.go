package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipper/internal/core/domain"
)

func TestMetrics_DiscoveryPass(t *testing.T) {
	m := New()

	m.DiscoveryPass(3, nil)
	m.DiscoveryPass(2, nil)
	m.DiscoveryPass(1, errors.New("boom"))

	assert.InDelta(t, 2.0, testutil.ToFloat64(m.discoveryPasses.WithLabelValues("ok")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.discoveryPasses.WithLabelValues("error")), 1e-9)
	assert.InDelta(t, 6.0, testutil.ToFloat64(m.discoveryPages), 1e-9)
}

func TestMetrics_CacheLookup(t *testing.T) {
	m := New()

	m.CacheLookup(false)
	m.CacheLookup(true)
	m.CacheLookup(true)

	assert.InDelta(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")), 1e-9)
}

func TestMetrics_SelectionKeepsLatest(t *testing.T) {
	m := New()

	m.Selection(10, 6, 3, 1)
	m.Selection(8, 5, 2, 0)

	assert.InDelta(t, 8.0, testutil.ToFloat64(m.clipsDiscovered), 1e-9)
	assert.InDelta(t, 5.0, testutil.ToFloat64(m.clipsSelected), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.clipsRedundant), 1e-9)
	assert.InDelta(t, 0.0, testutil.ToFloat64(m.clipsNoOffset), 1e-9)
}

func TestMetrics_Transfer(t *testing.T) {
	m := New()

	m.Transfer(domain.TransferComplete)
	m.Transfer(domain.TransferComplete)
	m.Transfer(domain.TransferInterrupted)
	m.Transfer("")

	assert.InDelta(t, 2.0, testutil.ToFloat64(m.transfers.WithLabelValues("complete")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.transfers.WithLabelValues("interrupted")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.transfers.WithLabelValues("unresolved")), 1e-9)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.Selection(4, 3, 1, 0)
	m.Transfer(domain.TransferComplete)

	path := filepath.Join(t.TempDir(), "clipper.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "clipper_clips_selected 3")
	assert.Contains(t, text, `clipper_transfers_total{state="complete"} 1`)
	assert.Contains(t, text, "clipper_last_run_timestamp_seconds")
}

func TestMetrics_WriteTextfileBadDir(t *testing.T) {
	m := New()

	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "clipper.prom"))

	assert.Error(t, err)
}
