package http

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"unitune/pkg/musiclink"
)

const (
	strategyFailed = "failed"
	unknownSource  = "unknown"
)

// Metrics holds the service collectors on a dedicated registry, so servers
// can be created repeatedly in tests.
type Metrics struct {
	registry *prometheus.Registry

	ResolutionsTotal   *prometheus.CounterVec
	ExtractionsTotal   *prometheus.CounterVec
	SearchesTotal      *prometheus.CounterVec
	SearchDuration     *prometheus.HistogramVec
	MatchSimilarity    *prometheus.HistogramVec
	ResolutionDuration *prometheus.HistogramVec
	PlaylistsTotal     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	metrics := &Metrics{
		registry: prometheus.NewRegistry(),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unitune_resolutions_total",
				Help: "Total number of link resolutions by source platform and status",
			},
			[]string{"source", "status"},
		),
		ExtractionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unitune_extractions_total",
				Help: "Total number of extraction strategy attempts; failed attempts use strategy=\"failed\"",
			},
			[]string{"platform", "strategy"},
		),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unitune_searches_total",
				Help: "Total number of platform searches by outcome",
			},
			[]string{"platform", "outcome"},
		),
		SearchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "unitune_search_duration_seconds",
				Help:    "Time spent in a platform searcher",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"platform"},
		),
		MatchSimilarity: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "unitune_match_similarity",
				Help:    "Similarity between the extracted track and its Spotify match",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
			[]string{"source"},
		),
		ResolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "unitune_resolution_duration_seconds",
				Help:    "Time spent resolving links",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		PlaylistsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unitune_playlists_total",
				Help: "Total number of playlist operations",
			},
			[]string{"operation", "status"},
		),
	}

	metrics.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.ResolutionsTotal,
		metrics.ExtractionsTotal,
		metrics.SearchesTotal,
		metrics.SearchDuration,
		metrics.MatchSimilarity,
		metrics.ResolutionDuration,
		metrics.PlaylistsTotal,
	)

	return metrics
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveStrategy(platform musiclink.Platform, strategy string, err error) {
	if err != nil {
		strategy = strategyFailed
	}
	m.ExtractionsTotal.WithLabelValues(string(platform), strategy).Inc()
}

func (m *Metrics) RecordResolution(source musiclink.Platform, status string) {
	label := string(source)
	if label == "" {
		label = unknownSource
	}
	m.ResolutionsTotal.WithLabelValues(label, status).Inc()
}

func (m *Metrics) RecordResolutionDuration(kind string, duration time.Duration) {
	m.ResolutionDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *Metrics) RecordSearch(platform musiclink.Platform, outcome string, duration time.Duration) {
	m.SearchesTotal.WithLabelValues(string(platform), outcome).Inc()
	m.SearchDuration.WithLabelValues(string(platform)).Observe(duration.Seconds())
}

func (m *Metrics) RecordMatchSimilarity(source musiclink.Platform, similarity float64) {
	m.MatchSimilarity.WithLabelValues(string(source)).Observe(similarity)
}

func (m *Metrics) RecordPlaylistOperation(operation, status string) {
	m.PlaylistsTotal.WithLabelValues(operation, status).Inc()
}
