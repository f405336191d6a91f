package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"unitune/pkg/musiclink"
)

type fakeCatalog struct {
	mu      sync.Mutex
	tracks  map[string]*musiclink.TrackMetadata
	match   *musiclink.TrackMetadata
	err     error
	block   bool // SearchTrack waits for ctx to end
	panics  bool // SearchTrack panics
	queries []musiclink.TrackQuery
}

func (c *fakeCatalog) GetTrack(_ context.Context, id string) (*musiclink.TrackMetadata, error) {
	if track, ok := c.tracks[id]; ok {
		copied := *track
		return &copied, nil
	}
	return nil, errors.New("track not in catalog")
}

func (c *fakeCatalog) SearchTrack(ctx context.Context, query musiclink.TrackQuery) (*musiclink.TrackMetadata, error) {
	c.mu.Lock()
	c.queries = append(c.queries, query)
	c.mu.Unlock()
	if c.panics {
		panic("catalog exploded")
	}
	if c.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if c.err != nil {
		return nil, c.err
	}
	if c.match == nil {
		return nil, errors.New("no tracks found")
	}
	copied := *c.match
	return &copied, nil
}

func (c *fakeCatalog) searches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queries)
}

type fakeExtractor struct {
	platform musiclink.Platform
	tracks   map[string]*musiclink.TrackMetadata
}

func (e *fakeExtractor) Platform() musiclink.Platform {
	return e.platform
}

func (e *fakeExtractor) Extract(_ context.Context, nativeID string) (*musiclink.TrackMetadata, error) {
	if track, ok := e.tracks[nativeID]; ok {
		copied := *track
		return &copied, nil
	}
	return nil, musiclink.ErrTrackNotFound
}

type fakeSearcher struct {
	platform musiclink.Platform
	search   func(ctx context.Context, query musiclink.TrackQuery) ([]musiclink.PlatformLink, error)
}

func (s *fakeSearcher) Platform() musiclink.Platform {
	return s.platform
}

func (s *fakeSearcher) Search(ctx context.Context, query musiclink.TrackQuery) ([]musiclink.PlatformLink, error) {
	return s.search(ctx, query)
}

// fallbackSearcher always answers with a search page for its platform.
func fallbackSearcher(platform musiclink.Platform) *fakeSearcher {
	return &fakeSearcher{
		platform: platform,
		search: func(_ context.Context, query musiclink.TrackQuery) ([]musiclink.PlatformLink, error) {
			return []musiclink.PlatformLink{
				musiclink.NewSearchLink(platform, "https://search.example/"+string(platform)+"?q="+query.Text()),
			}, nil
		},
	}
}

// trackSearcher always answers with a verified link for its platform.
func trackSearcher(platform musiclink.Platform, id string) *fakeSearcher {
	return &fakeSearcher{
		platform: platform,
		search: func(context.Context, musiclink.TrackQuery) ([]musiclink.PlatformLink, error) {
			return []musiclink.PlatformLink{
				musiclink.NewTrackLink(platform, "https://track.example/"+string(platform)+"/"+id, id),
			}, nil
		},
	}
}

type searchObservation struct {
	platform musiclink.Platform
	outcome  string
}

type recordingRecorder struct {
	NopRecorder

	mu           sync.Mutex
	resolutions  []string
	searches     []searchObservation
	similarities []float64
}

func (r *recordingRecorder) RecordResolution(source musiclink.Platform, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolutions = append(r.resolutions, string(source)+"/"+status)
}

func (r *recordingRecorder) RecordSearch(platform musiclink.Platform, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches = append(r.searches, searchObservation{platform: platform, outcome: outcome})
}

func (r *recordingRecorder) RecordMatchSimilarity(_ musiclink.Platform, similarity float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.similarities = append(r.similarities, similarity)
}

func (r *recordingRecorder) outcomeFor(platform musiclink.Platform) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.searches {
		if s.platform == platform {
			return s.outcome
		}
	}
	return ""
}

func rickRoll() *musiclink.TrackMetadata {
	return &musiclink.TrackMetadata{
		ID:             "4PTG3Z6ehGkBFwjybzWkR8",
		Title:          "Never Gonna Give You Up",
		Artist:         "Rick Astley",
		Album:          "Whenever You Need Somebody",
		ISRC:           "GBARL9300135",
		ThumbnailURL:   "https://i.scdn.co/image/rick",
		CanonicalURL:   "https://open.spotify.com/track/4PTG3Z6ehGkBFwjybzWkR8",
		SourcePlatform: musiclink.PlatformSpotify,
	}
}

func mrBrightside() *musiclink.TrackMetadata {
	return &musiclink.TrackMetadata{
		ID:             "3n3Ppam7vgaVa1iaRUc9Lp",
		Title:          "Mr. Brightside",
		Artist:         "The Killers",
		Album:          "Hot Fuss",
		ISRC:           "USIR20400274",
		ThumbnailURL:   "https://i.scdn.co/image/brightside",
		CanonicalURL:   "https://open.spotify.com/track/3n3Ppam7vgaVa1iaRUc9Lp",
		SourcePlatform: musiclink.PlatformSpotify,
	}
}

// testResolver wires a resolver with a Spotify extractor over catalog, a
// Deezer extractor, and fallback searchers for every other platform.
func testResolver(catalog *fakeCatalog, recorder Recorder, deezerTracks map[string]*musiclink.TrackMetadata) *Resolver {
	logger := zap.NewNop()
	opts := musiclink.Options{Logger: logger}
	searchers := []musiclink.Searcher{
		fallbackSearcher(musiclink.PlatformTidal),
		fallbackSearcher(musiclink.PlatformAppleMusic),
		fallbackSearcher(musiclink.PlatformAmazonMusic),
		trackSearcher(musiclink.PlatformDeezer, "3135556"),
		fallbackSearcher(musiclink.PlatformYouTubeMusic),
	}
	pipeline := Pipeline{
		Recognizer: musiclink.NewRecognizer(),
		Extractors: []musiclink.Extractor{
			musiclink.NewSpotifyExtractor(catalog, opts),
			&fakeExtractor{platform: musiclink.PlatformDeezer, tracks: deezerTracks},
			&fakeExtractor{platform: musiclink.PlatformTidal},
		},
		Reconciler: NewReconciler(catalog, time.Second, recorder, DefaultMatchWarnThreshold, logger),
		Aggregator: NewAggregator(searchers, time.Second, recorder, logger),
	}
	config := DefaultConfig().App
	return NewResolver(pipeline, &config, DefaultShareBaseURL, recorder, logger)
}
