package musiclink

import (
	"context"
	"errors"
	"sync"
)

// fakeCatalog is an in-memory SpotifyCatalog.
type fakeCatalog struct {
	mu        sync.Mutex
	tracks    map[string]*TrackMetadata
	match     *TrackMetadata
	searchErr error
	queries   []TrackQuery
}

func (f *fakeCatalog) GetTrack(_ context.Context, id string) (*TrackMetadata, error) {
	if track, ok := f.tracks[id]; ok {
		return track, nil
	}
	return nil, errors.New("spotify track not found")
}

func (f *fakeCatalog) SearchTrack(_ context.Context, query TrackQuery) (*TrackMetadata, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.match == nil {
		return nil, errors.New("no spotify match")
	}
	return f.match, nil
}

func (f *fakeCatalog) searches() []TrackQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]TrackQuery(nil), f.queries...)
}

func rickRoll() *TrackMetadata {
	return &TrackMetadata{
		ID:             "4PTG3Z6ehGkBFwjybzWkR8",
		Title:          "Never Gonna Give You Up",
		Artist:         "Rick Astley",
		Album:          "Whenever You Need Somebody",
		ISRC:           "GBARL9300135",
		ThumbnailURL:   "https://i.scdn.co/image/rick",
		CanonicalURL:   "https://open.spotify.com/track/4PTG3Z6ehGkBFwjybzWkR8",
		SourcePlatform: PlatformSpotify,
	}
}
