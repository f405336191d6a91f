package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"unitune/internal/i18n"
	"unitune/pkg/musiclink"
	"unitune/pkg/text"
)

// Resolution kinds reported as the duration label.
const (
	KindLinks = "links"
	KindBatch = "batch"
	KindShare = "share"
)

// Pipeline bundles the stages a Resolver runs.
type Pipeline struct {
	Recognizer *musiclink.Recognizer
	Extractors []musiclink.Extractor
	Reconciler *Reconciler
	Aggregator *Aggregator
}

// Resolver turns a track link into links on every supported platform.
type Resolver struct {
	recognizer   *musiclink.Recognizer
	extractors   map[musiclink.Platform]musiclink.Extractor
	reconciler   *Reconciler
	aggregator   *Aggregator
	parser       *text.Parser
	config       *AppConfig
	shareBaseURL string
	recorder     Recorder
	logger       *zap.Logger
}

func NewResolver(pipeline Pipeline, config *AppConfig, shareBaseURL string, recorder Recorder, logger *zap.Logger) *Resolver {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if config == nil {
		config = &DefaultConfig().App
	}
	extractors := make(map[musiclink.Platform]musiclink.Extractor, len(pipeline.Extractors))
	for _, extractor := range pipeline.Extractors {
		extractors[extractor.Platform()] = extractor
	}
	return &Resolver{
		recognizer:   pipeline.Recognizer,
		extractors:   extractors,
		reconciler:   pipeline.Reconciler,
		aggregator:   pipeline.Aggregator,
		parser:       text.NewParser(),
		config:       config,
		shareBaseURL: shareBaseURL,
		recorder:     recorder,
		logger:       logger,
	}
}

// Resolve resolves a single track link.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*LinksResponse, error) {
	start := time.Now()
	defer func() { r.recorder.RecordResolutionDuration(KindLinks, time.Since(start)) }()

	result, err := r.resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return r.response(result), nil
}

// ResolveShareLink resolves a share path: either an encoded share id or a
// legacy URL-encoded track link.
func (r *Resolver) ResolveShareLink(ctx context.Context, encoded string) (*LinksResponse, error) {
	start := time.Now()
	defer func() { r.recorder.RecordResolutionDuration(KindShare, time.Since(start)) }()

	trackURL, err := shareTrackURL(encoded)
	if err != nil {
		return nil, err
	}

	result, err := r.resolve(ctx, trackURL)
	if err != nil {
		return nil, err
	}
	return r.response(result), nil
}

func shareTrackURL(encoded string) (string, error) {
	if musiclink.IsLegacyShareID(encoded) {
		decoded, err := musiclink.DecodeLegacyShareID(encoded)
		if err != nil {
			return "", newError(KindInput, i18n.ErrShareInvalid, err)
		}
		return decoded, nil
	}

	shareID, err := musiclink.DecodeShareID(encoded)
	if err != nil {
		return "", newError(KindInput, i18n.ErrShareInvalid, err)
	}
	platform, ok := musiclink.ParsePlatform(shareID.Platform)
	if !ok {
		return "", newError(KindInput, i18n.ErrSharePlatform, nil, shareID.Platform)
	}
	trackURL, ok := musiclink.TrackURL(platform, shareID.ID)
	if !ok {
		return "", newError(KindInput, i18n.ErrShareInvalid, musiclink.ErrInvalidShareID)
	}
	return trackURL, nil
}

func (r *Resolver) response(result *ResolutionResult) *LinksResponse {
	source := result.Metadata.SourcePlatform
	pageURL := musiclink.ShareURL(r.shareBaseURL, source, result.Metadata.ID)
	return NewLinksResponse(*result, pageURL)
}

func (r *Resolver) resolve(ctx context.Context, rawURL string) (*ResolutionResult, error) {
	link := r.parser.ExtractLink(rawURL)
	if strings.TrimSpace(link) == "" {
		return nil, newError(KindInput, i18n.ErrURLMissing, nil)
	}

	id, err := r.recognizer.Recognize(link)
	if err != nil {
		r.recorder.RecordResolution("", StatusUnsupported)
		return nil, newError(KindInput, i18n.ErrURLUnsupported, err)
	}

	extractor, ok := r.extractors[id.Platform]
	if !ok {
		r.recorder.RecordResolution(id.Platform, StatusUnsupported)
		return nil, newError(KindInput, i18n.ErrURLUnsupported, musiclink.ErrNotRecognized)
	}

	extracted, err := extractor.Extract(ctx, id.NativeID)
	if err != nil || extracted == nil {
		if err == nil {
			err = musiclink.ErrTrackNotFound
		}
		status := StatusNotFound
		if ctx.Err() != nil && !errors.Is(err, musiclink.ErrTrackNotFound) {
			status = StatusError
		}
		r.recorder.RecordResolution(id.Platform, status)
		r.logger.Info("Track extraction failed",
			zap.String("platform", string(id.Platform)),
			zap.String("id", id.NativeID),
			zap.Error(err))
		return nil, notFoundError(id.Platform, err)
	}

	meta := *extracted
	meta.ID = id.NativeID
	meta.SourcePlatform = id.Platform

	final, match := r.reconciler.Reconcile(ctx, id.Platform, meta)
	links := r.aggregator.Aggregate(ctx, final, knownLinks(id, final, match))

	r.recorder.RecordResolution(id.Platform, StatusSuccess)
	r.logger.Debug("Track resolved",
		zap.String("platform", string(id.Platform)),
		zap.String("id", id.NativeID),
		zap.String("artist", final.Artist),
		zap.String("title", final.Title),
		zap.Int("links", len(links)))

	result := BuildResult(final, links, id.Platform)
	return &result, nil
}

// knownLinks returns the verified links available before any search: the
// source link and the reconciler's Spotify match.
func knownLinks(id musiclink.TrackIdentifier, meta musiclink.TrackMetadata, match *musiclink.TrackMetadata) map[musiclink.Platform]musiclink.PlatformLink {
	links := make(map[musiclink.Platform]musiclink.PlatformLink, 3)

	sourceURL := meta.CanonicalURL
	if sourceURL == "" {
		sourceURL, _ = musiclink.TrackURL(id.Platform, id.NativeID)
	}
	links[id.Platform] = musiclink.NewTrackLink(id.Platform, sourceURL, id.NativeID)

	// A YouTube video plays in YouTube Music under the same id.
	if id.Platform == musiclink.PlatformYouTube {
		links[musiclink.PlatformYouTubeMusic] = musiclink.NewTrackLink(musiclink.PlatformYouTubeMusic,
			musiclink.YouTubeMusicWatchURL(id.NativeID), id.NativeID)
	}

	if match != nil && match.ID != "" {
		spotifyURL := match.CanonicalURL
		if spotifyURL == "" {
			spotifyURL = musiclink.SpotifyTrackURL(match.ID)
		}
		links[musiclink.PlatformSpotify] = musiclink.NewTrackLink(musiclink.PlatformSpotify, spotifyURL, match.ID)
	}
	return links
}
