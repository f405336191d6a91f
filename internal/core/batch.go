package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"unitune/internal/i18n"
)

// ResolveBatch resolves every url independently. Failures are reported per
// entry and never fail the batch; tracks and errors follow input order.
func (r *Resolver) ResolveBatch(ctx context.Context, urls []string) (*BatchResponse, error) {
	if len(urls) == 0 {
		return nil, newError(KindInput, i18n.ErrBatchURLsRequired, nil)
	}
	if len(urls) > r.config.MaxBatchSize {
		return nil, newError(KindInput, i18n.ErrBatchTooMany, nil, r.config.MaxBatchSize)
	}

	start := time.Now()
	defer func() { r.recorder.RecordResolutionDuration(KindBatch, time.Since(start)) }()

	results := make([]*ResolutionResult, len(urls))
	failures := make([]*Error, len(urls))

	var g errgroup.Group
	g.SetLimit(max(r.config.BatchConcurrency, 1))
	for i, rawURL := range urls {
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Error("Batch entry panicked",
						zap.Int("index", i),
						zap.String("url", rawURL),
						zap.Any("panic", rec),
						zap.Stack("stack"))
					failures[i] = newError(KindInternal, i18n.ErrInternal, fmt.Errorf("panic: %v", rec))
				}
			}()

			result, err := r.resolve(ctx, rawURL)
			if err != nil {
				failures[i] = AsError(err)
				return nil
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	resp := &BatchResponse{
		Tracks: []BatchTrack{},
		Errors: []BatchError{},
	}
	for i, rawURL := range urls {
		if failure := failures[i]; failure != nil {
			resp.Errors = append(resp.Errors, BatchError{Index: i, URL: rawURL, Error: shortMessage(failure)})
			continue
		}
		result := results[i]
		resp.Tracks = append(resp.Tracks, BatchTrack{
			OriginalURL:  rawURL,
			Title:        result.Metadata.Title,
			Artist:       result.Metadata.Artist,
			ThumbnailURL: result.Metadata.ThumbnailURL,
			Links:        linkEntries(result.Links),
		})
	}
	resp.SuccessCount = len(resp.Tracks)
	resp.FailedCount = len(resp.Errors)

	r.logger.Info("Batch resolved",
		zap.Int("urls", len(urls)),
		zap.Int("succeeded", resp.SuccessCount),
		zap.Int("failed", resp.FailedCount))
	return resp, nil
}
