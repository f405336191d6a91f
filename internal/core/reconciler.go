package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"unitune/pkg/fuzzy"
	"unitune/pkg/musiclink"
)

// Reconciler looks the extracted track up on Spotify so every response shares
// Spotify's cover art and ISRC.
type Reconciler struct {
	catalog       musiclink.SpotifyCatalog
	timeout       time.Duration
	normalizer    *fuzzy.Normalizer
	recorder      Recorder
	warnThreshold float64
	logger        *zap.Logger
}

// NewReconciler creates a Reconciler. Each Spotify search is bounded by timeout;
// a non-positive timeout uses musiclink.DefaultStrategyTimeout.
func NewReconciler(catalog musiclink.SpotifyCatalog, timeout time.Duration, recorder Recorder, warnThreshold float64, logger *zap.Logger) *Reconciler {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if timeout <= 0 {
		timeout = musiclink.DefaultStrategyTimeout
	}
	return &Reconciler{
		catalog:       catalog,
		timeout:       timeout,
		normalizer:    fuzzy.NewNormalizer(),
		recorder:      recorder,
		warnThreshold: warnThreshold,
		logger:        logger,
	}
}

// Reconcile returns the finalized metadata and the Spotify match, if any.
// A failed search leaves the metadata untouched.
func (r *Reconciler) Reconcile(ctx context.Context, source musiclink.Platform, meta musiclink.TrackMetadata) (musiclink.TrackMetadata, *musiclink.TrackMetadata) {
	if source == musiclink.PlatformSpotify {
		return meta, nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	match, err := r.catalog.SearchTrack(searchCtx, meta.Query())
	if err != nil || match == nil {
		r.logger.Debug("No Spotify match for track",
			zap.String("source", string(source)),
			zap.String("artist", meta.Artist),
			zap.String("title", meta.Title),
			zap.Error(err))
		return meta, nil
	}

	r.observeMatch(source, meta, match)

	final := meta
	if match.ThumbnailURL != "" {
		final.ThumbnailURL = match.ThumbnailURL
	}
	if final.ISRC == "" {
		final.ISRC = match.ISRC
	}
	return final, match
}

func (r *Reconciler) observeMatch(source musiclink.Platform, meta musiclink.TrackMetadata, match *musiclink.TrackMetadata) {
	similarity := r.normalizer.TrackSimilarity(meta.Artist, meta.Title, match.Artist, match.Title)
	r.recorder.RecordMatchSimilarity(source, similarity)

	if similarity < r.warnThreshold {
		r.logger.Warn("Low confidence Spotify match",
			zap.String("source", string(source)),
			zap.String("artist", meta.Artist),
			zap.String("title", meta.Title),
			zap.String("matchArtist", match.Artist),
			zap.String("matchTitle", match.Title),
			zap.Float64("similarity", similarity))
	}
}
