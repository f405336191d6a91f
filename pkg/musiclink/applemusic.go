package musiclink

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// iTunesLookupURL is the iTunes/Apple Music API lookup endpoint.
const iTunesLookupURL = "https://itunes.apple.com/lookup"

// iTunesLookupResponse represents the response from iTunes lookup API.
type iTunesLookupResponse struct {
	ResultCount int                 `json:"resultCount"`
	Results     []iTunesTrackResult `json:"results"`
}

// iTunesTrackResult represents a track result from iTunes API.
type iTunesTrackResult struct {
	TrackID        int64  `json:"trackId"`
	TrackName      string `json:"trackName"`
	ArtistName     string `json:"artistName"`
	CollectionName string `json:"collectionName"`
	TrackViewURL   string `json:"trackViewUrl"`
	ArtworkURL100  string `json:"artworkUrl100"`
	ISRC           string `json:"isrc"`
}

// AppleMusicExtractor resolves Apple Music song ids via the iTunes lookup API.
type AppleMusicExtractor struct {
	catalog   SpotifyCatalog
	opts      Options
	chain     *Chain
	lookupURL string
}

// NewAppleMusicExtractor creates an Apple Music extractor.
func NewAppleMusicExtractor(catalog SpotifyCatalog, opts Options) *AppleMusicExtractor {
	opts = opts.withDefaults()
	e := &AppleMusicExtractor{
		catalog:   catalog,
		opts:      opts,
		lookupURL: iTunesLookupURL,
	}
	e.chain = NewChain(PlatformAppleMusic, opts, Strategy{Name: "lookup", Attempt: e.lookup})
	return e
}

// Platform returns PlatformAppleMusic.
func (e *AppleMusicExtractor) Platform() Platform {
	return PlatformAppleMusic
}

// Extract runs the Apple Music chain.
func (e *AppleMusicExtractor) Extract(ctx context.Context, nativeID string) (*TrackMetadata, error) {
	meta, _, err := e.chain.Run(ctx, nativeID)
	return meta, err
}

func (e *AppleMusicExtractor) lookup(ctx context.Context, id string) (*TrackMetadata, error) {
	reqURL := fmt.Sprintf("%s?id=%s&entity=song", e.lookupURL, url.QueryEscape(id))

	var lookupResp iTunesLookupResponse
	if err := getJSON(ctx, e.opts.HTTPClient, reqURL, "iTunes API", nil, &lookupResp); err != nil {
		return nil, err
	}

	track := firstSong(lookupResp.Results, id)
	if track == nil || track.TrackName == "" || track.ArtistName == "" {
		return nil, errors.New("no track found in iTunes API response")
	}

	trackURL := track.TrackViewURL
	if trackURL == "" {
		trackURL = AppleMusicSongURL(id)
	}

	native := &TrackMetadata{
		ID:             id,
		Title:          track.TrackName,
		Artist:         track.ArtistName,
		Album:          track.CollectionName,
		ISRC:           track.ISRC,
		ThumbnailURL:   upscaleArtwork(track.ArtworkURL100),
		CanonicalURL:   trackURL,
		SourcePlatform: PlatformAppleMusic,
	}
	enriched, _ := enrichFromSpotify(ctx, e.catalog, native)
	return enriched, nil
}

// firstSong prefers the result whose trackId matches the requested id.
func firstSong(results []iTunesTrackResult, id string) *iTunesTrackResult {
	for i := range results {
		if strconv.FormatInt(results[i].TrackID, 10) == id {
			return &results[i]
		}
	}
	if len(results) > 0 {
		return &results[0]
	}
	return nil
}

// upscaleArtwork swaps the 100px artwork variant for a 640px one.
func upscaleArtwork(artworkURL string) string {
	return strings.Replace(artworkURL, "100x100", "640x640", 1)
}

// AppleMusicSongURL returns a canonical Apple Music song URL.
func AppleMusicSongURL(id string) string {
	return "https://music.apple.com/song/" + id
}

// AppleMusicSearcher produces an Apple Music search link. Apple offers no keyless
// catalog search, so the result is always a search fallback.
type AppleMusicSearcher struct{}

// NewAppleMusicSearcher creates an Apple Music searcher.
func NewAppleMusicSearcher() *AppleMusicSearcher {
	return &AppleMusicSearcher{}
}

// Platform returns PlatformAppleMusic.
func (s *AppleMusicSearcher) Platform() Platform {
	return PlatformAppleMusic
}

// Search returns the Apple Music search page for the query.
func (s *AppleMusicSearcher) Search(_ context.Context, query TrackQuery) ([]PlatformLink, error) {
	return []PlatformLink{
		NewSearchLink(PlatformAppleMusic, "https://music.apple.com/search?term="+plusQuery(query.Text())),
	}, nil
}
