// Package metrics records clipper's operational counters with Prometheus.
// A command line run has no scrape endpoint, so the registry is written in
// the text exposition format to a file, for example for the node exporter
// textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
)

// Ensure Metrics implements the interface.
var _ driven.MetricsRecorder = (*Metrics)(nil)

// Metrics holds Prometheus counters and gauges for clipper.
type Metrics struct {
	registry         *prometheus.Registry
	discoveryPasses  *prometheus.CounterVec
	discoveryPages   prometheus.Counter
	cacheLookups     *prometheus.CounterVec
	clipsDiscovered  prometheus.Gauge
	clipsSelected    prometheus.Gauge
	clipsRedundant   prometheus.Gauge
	clipsNoOffset    prometheus.Gauge
	transfers        *prometheus.CounterVec
	lastRunTimestamp prometheus.Gauge
}

// New creates and registers clipper's metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		discoveryPasses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clipper_discovery_passes_total",
			Help: "Discovery passes run, by outcome",
		}, []string{"outcome"}),
		discoveryPages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clipper_discovery_pages_total",
			Help: "Clip listing pages read by discovery passes",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clipper_discovery_cache_lookups_total",
			Help: "Discovery cache lookups, by result",
		}, []string{"result"}),
		clipsDiscovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clipper_clips_discovered",
			Help: "Clips discovered by the last selection before filtering",
		}),
		clipsSelected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clipper_clips_selected",
			Help: "Clips left by the last selection after filtering",
		}),
		clipsRedundant: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clipper_clips_redundant",
			Help: "Clips dropped as redundant by the last selection",
		}),
		clipsNoOffset: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clipper_clips_unknown_offset",
			Help: "Clips the last selection could not filter for lack of a timeline offset",
		}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clipper_transfers_total",
			Help: "Clip downloads, by final state",
		}, []string{"state"}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clipper_last_run_timestamp_seconds",
			Help: "Unix time the metrics file was last written",
		}),
	}

	registry.MustRegister(
		m.discoveryPasses,
		m.discoveryPages,
		m.cacheLookups,
		m.clipsDiscovered,
		m.clipsSelected,
		m.clipsRedundant,
		m.clipsNoOffset,
		m.transfers,
		m.lastRunTimestamp,
	)
	return m
}

// DiscoveryPass records one finished discovery pass.
func (m *Metrics) DiscoveryPass(pages int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.discoveryPasses.WithLabelValues(outcome).Inc()
	m.discoveryPages.Add(float64(pages))
}

// CacheLookup records a discovery cache lookup.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Selection records the clip counts of the latest selection.
func (m *Metrics) Selection(discovered, kept, redundant, unknownOffset int) {
	m.clipsDiscovered.Set(float64(discovered))
	m.clipsSelected.Set(float64(kept))
	m.clipsRedundant.Set(float64(redundant))
	m.clipsNoOffset.Set(float64(unknownOffset))
}

// Transfer records a download outcome.
func (m *Metrics) Transfer(state domain.TransferState) {
	label := string(state)
	if label == "" {
		label = "unresolved"
	}
	m.transfers.WithLabelValues(label).Inc()
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	m.lastRunTimestamp.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
