package core

import (
	"reflect"
	"testing"

	"unitune/pkg/musiclink"
)

func TestNewLinksResponse(t *testing.T) {
	meta := *mrBrightside()
	links := map[musiclink.Platform]musiclink.PlatformLink{
		musiclink.PlatformSpotify:     musiclink.NewTrackLink(musiclink.PlatformSpotify, meta.CanonicalURL, meta.ID),
		musiclink.PlatformDeezer:      musiclink.NewTrackLink(musiclink.PlatformDeezer, "https://www.deezer.com/track/3135556", "3135556"),
		musiclink.PlatformAmazonMusic: musiclink.NewSearchLink(musiclink.PlatformAmazonMusic, "https://music.amazon.com/search/The+Killers+Mr.+Brightside"),
		musiclink.PlatformAppleMusic:  musiclink.NewSearchLink(musiclink.PlatformAppleMusic, "https://music.apple.com/search?term=The+Killers+Mr.+Brightside"),
	}

	result := BuildResult(meta, links, musiclink.PlatformSpotify)
	resp := NewLinksResponse(result, "https://unitune.art/s/abc")

	if resp.EntityUniqueID != "SPOTIFY::TRACK::3n3Ppam7vgaVa1iaRUc9Lp" {
		t.Errorf("EntityUniqueID = %q", resp.EntityUniqueID)
	}
	if resp.UserCountry != "US" || resp.PageURL != "https://unitune.art/s/abc" {
		t.Errorf("UserCountry/PageURL = %q/%q", resp.UserCountry, resp.PageURL)
	}

	entity, ok := resp.EntitiesByUniqueID[resp.EntityUniqueID]
	if !ok {
		t.Fatalf("entity %q missing from %v", resp.EntityUniqueID, resp.EntitiesByUniqueID)
	}
	want := Entity{
		ID:              "3n3Ppam7vgaVa1iaRUc9Lp",
		Type:            "song",
		Title:           "Mr. Brightside",
		ArtistName:      "The Killers",
		ThumbnailURL:    "https://i.scdn.co/image/brightside",
		ThumbnailWidth:  640,
		ThumbnailHeight: 640,
		APIProvider:     "spotify",
		Platforms:       []string{"spotify", "appleMusic", "amazonMusic", "deezer"},
	}
	if !reflect.DeepEqual(entity, want) {
		t.Errorf("entity = %+v, want %+v", entity, want)
	}

	linkTests := []struct {
		platform     string
		wantEntityID string
		wantFallback bool
	}{
		{"spotify", "SPOTIFY::TRACK::3n3Ppam7vgaVa1iaRUc9Lp", false},
		{"deezer", "DEEZER::TRACK::3135556", false},
		{"amazonMusic", "AMAZONMUSIC::TRACK::unknown", true},
		{"appleMusic", "APPLEMUSIC::TRACK::unknown", true},
	}
	for _, tt := range linkTests {
		t.Run(tt.platform, func(t *testing.T) {
			entry, ok := resp.LinksByPlatform[tt.platform]
			if !ok {
				t.Fatalf("link for %s missing", tt.platform)
			}
			if entry.EntityUniqueID != tt.wantEntityID {
				t.Errorf("EntityUniqueID = %q, want %q", entry.EntityUniqueID, tt.wantEntityID)
			}
			if entry.IsSearchFallback != tt.wantFallback {
				t.Errorf("IsSearchFallback = %v, want %v", entry.IsSearchFallback, tt.wantFallback)
			}
		})
	}
}

func TestBuildResult_UnknownID(t *testing.T) {
	meta := *mrBrightside()
	meta.ID = ""
	result := BuildResult(meta, nil, musiclink.PlatformTidal)
	if result.CanonicalEntityID != "TIDAL::TRACK::unknown" {
		t.Errorf("CanonicalEntityID = %q", result.CanonicalEntityID)
	}
}
