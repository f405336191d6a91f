package core

import (
	"time"

	"unitune/pkg/musiclink"
)

// Resolution statuses reported to the Recorder.
const (
	StatusSuccess     = "success"
	StatusNotFound    = "not_found"
	StatusUnsupported = "unsupported"
	StatusError       = "error"
)

// Search outcomes reported to the Recorder.
const (
	OutcomeMatch    = "match"
	OutcomeFallback = "fallback"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeTimeout  = "timeout"
	OutcomePanic    = "panic"
)

// Recorder receives pipeline observations. The HTTP layer backs it with Prometheus.
type Recorder interface {
	musiclink.StrategyObserver

	RecordResolution(source musiclink.Platform, status string)
	RecordResolutionDuration(kind string, duration time.Duration)
	RecordSearch(platform musiclink.Platform, outcome string, duration time.Duration)
	RecordMatchSimilarity(source musiclink.Platform, similarity float64)
	RecordPlaylistOperation(operation, status string)
}

// NopRecorder discards every observation.
type NopRecorder struct{}

func (NopRecorder) ObserveStrategy(musiclink.Platform, string, error)      {}
func (NopRecorder) RecordResolution(musiclink.Platform, string)            {}
func (NopRecorder) RecordResolutionDuration(string, time.Duration)         {}
func (NopRecorder) RecordSearch(musiclink.Platform, string, time.Duration) {}
func (NopRecorder) RecordMatchSimilarity(musiclink.Platform, float64)      {}
func (NopRecorder) RecordPlaylistOperation(string, string)                 {}
