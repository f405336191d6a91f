package musiclink

import "context"

// SpotifyExtractor resolves Spotify track ids through the authenticated catalog.
type SpotifyExtractor struct {
	catalog SpotifyCatalog
	chain   *Chain
}

// NewSpotifyExtractor creates a Spotify extractor.
func NewSpotifyExtractor(catalog SpotifyCatalog, opts Options) *SpotifyExtractor {
	e := &SpotifyExtractor{catalog: catalog}
	e.chain = NewChain(PlatformSpotify, opts, Strategy{Name: "catalog", Attempt: e.catalog.GetTrack})
	return e
}

// Platform returns PlatformSpotify.
func (e *SpotifyExtractor) Platform() Platform {
	return PlatformSpotify
}

// Extract runs the Spotify chain.
func (e *SpotifyExtractor) Extract(ctx context.Context, nativeID string) (*TrackMetadata, error) {
	meta, _, err := e.chain.Run(ctx, nativeID)
	return meta, err
}

// SpotifyTrackURL returns the canonical web URL of a Spotify track.
func SpotifyTrackURL(id string) string {
	return "https://open.spotify.com/track/" + id
}
