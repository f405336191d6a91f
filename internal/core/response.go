package core

import (
	"unitune/pkg/musiclink"
)

const (
	userCountry     = "US"
	entityTypeSong  = "song"
	thumbnailSize   = 640
	unknownEntityID = "unknown"
)

// BuildResult assembles the resolution result for a source platform.
func BuildResult(meta musiclink.TrackMetadata, links map[musiclink.Platform]musiclink.PlatformLink, source musiclink.Platform) ResolutionResult {
	return ResolutionResult{
		CanonicalEntityID: entityID(source, meta.ID),
		Metadata:          meta,
		Links:             links,
	}
}

// NewLinksResponse renders a result in the wire format.
func NewLinksResponse(result ResolutionResult, pageURL string) *LinksResponse {
	meta := result.Metadata
	entity := Entity{
		ID:              meta.ID,
		Type:            entityTypeSong,
		Title:           meta.Title,
		ArtistName:      meta.Artist,
		ThumbnailURL:    meta.ThumbnailURL,
		ThumbnailWidth:  thumbnailSize,
		ThumbnailHeight: thumbnailSize,
		APIProvider:     string(meta.SourcePlatform),
		Platforms:       orderedPlatforms(result.Links),
	}

	return &LinksResponse{
		EntityUniqueID: result.CanonicalEntityID,
		UserCountry:    userCountry,
		PageURL:        pageURL,
		EntitiesByUniqueID: map[string]Entity{
			result.CanonicalEntityID: entity,
		},
		LinksByPlatform: linkEntries(result.Links),
	}
}

func linkEntries(links map[musiclink.Platform]musiclink.PlatformLink) map[string]LinkEntry {
	entries := make(map[string]LinkEntry, len(links))
	for platform, link := range links {
		entries[string(platform)] = LinkEntry{
			URL:              link.URL,
			EntityUniqueID:   entityID(platform, link.NativeTrackID),
			IsSearchFallback: link.IsSearchFallback,
		}
	}
	return entries
}

// orderedPlatforms lists the linked platforms in canonical order.
func orderedPlatforms(links map[musiclink.Platform]musiclink.PlatformLink) []string {
	platforms := make([]string, 0, len(links))
	for _, platform := range musiclink.Platforms {
		if _, ok := links[platform]; ok {
			platforms = append(platforms, string(platform))
		}
	}
	return platforms
}

func entityID(platform musiclink.Platform, nativeID string) string {
	if nativeID == "" {
		nativeID = unknownEntityID
	}
	return platform.EntityPrefix() + "::TRACK::" + nativeID
}
