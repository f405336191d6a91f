// Package musiclink recognizes streaming links and resolves tracks across music platforms.
package musiclink

import (
	"context"
	"errors"
	"strings"
)

// Platform is a canonical platform tag as it appears on the wire.
type Platform string

const (
	PlatformSpotify      Platform = "spotify"
	PlatformTidal        Platform = "tidal"
	PlatformAppleMusic   Platform = "appleMusic"
	PlatformAmazonMusic  Platform = "amazonMusic"
	PlatformDeezer       Platform = "deezer"
	PlatformYouTube      Platform = "youtube"
	PlatformYouTubeMusic Platform = "youtubeMusic"
)

// Platforms lists every platform tag in canonical output order.
var Platforms = []Platform{
	PlatformSpotify,
	PlatformTidal,
	PlatformAppleMusic,
	PlatformAmazonMusic,
	PlatformDeezer,
	PlatformYouTube,
	PlatformYouTubeMusic,
}

// EntityPrefix returns the upper-cased tag used in entity ids.
func (p Platform) EntityPrefix() string {
	return strings.ToUpper(string(p))
}

// ParsePlatform maps a wire tag back to a Platform.
func ParsePlatform(tag string) (Platform, bool) {
	for _, p := range Platforms {
		if string(p) == tag {
			return p, true
		}
	}
	return "", false
}

var (
	// ErrNotRecognized is returned when a link matches no known platform pattern.
	ErrNotRecognized = errors.New("link not recognized")
	// ErrTrackNotFound is returned when every extraction strategy came up empty.
	ErrTrackNotFound = errors.New("track not found")
)

// TrackIdentifier is a (platform, native id) pair produced by the Recognizer.
type TrackIdentifier struct {
	Platform Platform
	NativeID string
}

// TrackMetadata holds canonical track information. Empty optional fields mean "unknown".
type TrackMetadata struct {
	ID             string
	Title          string
	Artist         string
	Album          string // Optional.
	ISRC           string // Optional.
	ThumbnailURL   string // Optional.
	CanonicalURL   string
	SourcePlatform Platform
}

// Query returns the search triple derived from the metadata.
func (m TrackMetadata) Query() TrackQuery {
	return TrackQuery{Artist: m.Artist, Title: m.Title, ISRC: m.ISRC}
}

// TrackQuery is the input handed to searchers.
type TrackQuery struct {
	Artist string
	Title  string
	ISRC   string
}

// Text returns "<artist> <title>" for free-text search pages.
func (q TrackQuery) Text() string {
	return strings.TrimSpace(q.Artist + " " + q.Title)
}

// PlatformLink is a link to a track on one platform.
type PlatformLink struct {
	Platform         Platform
	URL              string
	IsSearchFallback bool
	NativeTrackID    string
}

// NewTrackLink builds a verified link to a concrete track.
func NewTrackLink(platform Platform, trackURL, nativeID string) PlatformLink {
	return PlatformLink{
		Platform:      platform,
		URL:           trackURL,
		NativeTrackID: nativeID,
	}
}

// NewSearchLink builds a generic search-page link with no verified match.
func NewSearchLink(platform Platform, searchURL string) PlatformLink {
	return PlatformLink{
		Platform:         platform,
		URL:              searchURL,
		IsSearchFallback: true,
	}
}

// Extractor turns a platform-native track id into metadata.
type Extractor interface {
	// Platform returns the source platform this extractor handles.
	Platform() Platform

	// Extract returns metadata for the track or an error wrapping ErrTrackNotFound.
	Extract(ctx context.Context, nativeID string) (*TrackMetadata, error)
}

// Searcher finds a track on a target platform. It may return links for more than one platform.
type Searcher interface {
	// Platform returns the primary platform this searcher targets.
	Platform() Platform

	// Search returns the links found for the query. An empty result means no link.
	Search(ctx context.Context, query TrackQuery) ([]PlatformLink, error)
}

// SpotifyCatalog is the Spotify capability the pipeline depends on.
type SpotifyCatalog interface {
	// GetTrack looks a track up by Spotify id.
	GetTrack(ctx context.Context, id string) (*TrackMetadata, error)

	// SearchTrack returns the first match for the query, ISRC first.
	SearchTrack(ctx context.Context, query TrackQuery) (*TrackMetadata, error)
}
