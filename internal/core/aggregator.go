package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"unitune/pkg/musiclink"
)

var errSearcherPanic = errors.New("searcher panicked")

// Aggregator fans a track query out to every platform searcher.
type Aggregator struct {
	searchers []musiclink.Searcher
	timeout   time.Duration
	recorder  Recorder
	logger    *zap.Logger
}

func NewAggregator(searchers []musiclink.Searcher, timeout time.Duration, recorder Recorder, logger *zap.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = musiclink.DefaultStrategyTimeout
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Aggregator{
		searchers: searchers,
		timeout:   timeout,
		recorder:  recorder,
		logger:    logger,
	}
}

// Aggregate runs the searchers concurrently and merges their links with
// linksSoFar. Entries in linksSoFar always win.
func (a *Aggregator) Aggregate(ctx context.Context, meta musiclink.TrackMetadata, linksSoFar map[musiclink.Platform]musiclink.PlatformLink) map[musiclink.Platform]musiclink.PlatformLink {
	query := meta.Query()
	slots := make([][]musiclink.PlatformLink, len(a.searchers))

	var g errgroup.Group
	for i, searcher := range a.searchers {
		if _, known := linksSoFar[searcher.Platform()]; known {
			continue
		}
		g.Go(func() error {
			slots[i] = a.search(ctx, searcher, query)
			return nil
		})
	}
	_ = g.Wait()

	merged := make(map[musiclink.Platform]musiclink.PlatformLink, len(musiclink.Platforms))
	for _, links := range slots {
		for _, link := range links {
			if _, taken := merged[link.Platform]; !taken {
				merged[link.Platform] = link
			}
		}
	}
	for platform, link := range linksSoFar {
		merged[platform] = link
	}
	return merged
}

type searchResult struct {
	links []musiclink.PlatformLink
	err   error
}

// search runs one searcher under its own deadline. A searcher that ignores
// its context is abandoned once the deadline passes.
func (a *Aggregator) search(ctx context.Context, searcher musiclink.Searcher, query musiclink.TrackQuery) []musiclink.PlatformLink {
	platform := searcher.Platform()
	start := time.Now()

	searchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	done := make(chan searchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- searchResult{err: fmt.Errorf("%w: %v", errSearcherPanic, r)}
			}
		}()
		links, err := searcher.Search(searchCtx, query)
		done <- searchResult{links: links, err: err}
	}()

	var result searchResult
	select {
	case result = <-done:
	case <-searchCtx.Done():
		result = searchResult{err: searchCtx.Err()}
	}

	outcome := searchOutcome(result)
	a.recorder.RecordSearch(platform, outcome, time.Since(start))
	if result.err != nil {
		a.logger.Warn("Searcher failed",
			zap.String("platform", string(platform)),
			zap.String("outcome", outcome),
			zap.Error(result.err))
		return nil
	}
	return result.links
}

func searchOutcome(result searchResult) string {
	switch {
	case errors.Is(result.err, errSearcherPanic):
		return OutcomePanic
	case errors.Is(result.err, context.DeadlineExceeded):
		return OutcomeTimeout
	case result.err != nil:
		return OutcomeError
	case len(result.links) == 0:
		return OutcomeEmpty
	}
	for _, link := range result.links {
		if !link.IsSearchFallback {
			return OutcomeMatch
		}
	}
	return OutcomeFallback
}
