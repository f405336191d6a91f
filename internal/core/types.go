package core

import (
	"unitune/pkg/musiclink"
)

// ResolutionResult is the assembled outcome of one resolution.
type ResolutionResult struct {
	CanonicalEntityID string
	Metadata          musiclink.TrackMetadata
	Links             map[musiclink.Platform]musiclink.PlatformLink
}

// LinksResponse is the Odesli-compatible response body of a single resolution.
type LinksResponse struct {
	EntityUniqueID     string               `json:"entityUniqueId"`
	UserCountry        string               `json:"userCountry"`
	PageURL            string               `json:"pageUrl"`
	EntitiesByUniqueID map[string]Entity    `json:"entitiesByUniqueId"`
	LinksByPlatform    map[string]LinkEntry `json:"linksByPlatform"`
}

// Entity describes the resolved song.
type Entity struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	ArtistName      string   `json:"artistName"`
	ThumbnailURL    string   `json:"thumbnailUrl,omitempty"`
	ThumbnailWidth  int      `json:"thumbnailWidth"`
	ThumbnailHeight int      `json:"thumbnailHeight"`
	APIProvider     string   `json:"apiProvider"`
	Platforms       []string `json:"platforms"`
}

// LinkEntry is one platform entry of linksByPlatform.
type LinkEntry struct {
	URL              string `json:"url"`
	EntityUniqueID   string `json:"entityUniqueId"`
	IsSearchFallback bool   `json:"isSearchFallback"`
}

// BatchResponse is the body of a batch resolution.
type BatchResponse struct {
	Tracks       []BatchTrack `json:"tracks"`
	SuccessCount int          `json:"success_count"`
	FailedCount  int          `json:"failed_count"`
	Errors       []BatchError `json:"errors"`
}

// BatchTrack is one successfully resolved batch entry.
type BatchTrack struct {
	OriginalURL  string               `json:"original_url"`
	Title        string               `json:"title"`
	Artist       string               `json:"artist"`
	ThumbnailURL string               `json:"thumbnail_url,omitempty"`
	Links        map[string]LinkEntry `json:"links"`
}

// BatchError reports a failed batch entry by its input position.
type BatchError struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	Error string `json:"error"`
}
