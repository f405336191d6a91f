package musiclink

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newITunesServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("entity") != "song" {
			t.Errorf("entity = %q, want song", r.URL.Query().Get("entity"))
		}
		switch r.URL.Query().Get("id") {
		case "1558534271":
			fmt.Fprint(w, `{"resultCount":2,"results":[
				{"wrapperType":"collection","collectionName":"Whenever You Need Somebody"},
				{"trackId":1558534271,"trackName":"Never Gonna Give You Up","artistName":"Rick Astley",
				 "collectionName":"Whenever You Need Somebody",
				 "artworkUrl100":"https://is1.mzstatic.com/image/thumb/100x100bb.jpg"}]}`)
		default:
			fmt.Fprint(w, `{"resultCount":0,"results":[]}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAppleMusicExtractor_Extract(t *testing.T) {
	t.Helper()

	srv := newITunesServer(t)

	tests := []struct {
		name          string
		catalog       *fakeCatalog
		wantISRC      string
		wantThumbnail string
	}{
		{
			name:          "enriched through Spotify",
			catalog:       &fakeCatalog{match: rickRoll()},
			wantISRC:      "GBARL9300135",
			wantThumbnail: "https://is1.mzstatic.com/image/thumb/640x640bb.jpg",
		},
		{
			name:          "lookup metadata without a match",
			catalog:       &fakeCatalog{},
			wantISRC:      "",
			wantThumbnail: "https://is1.mzstatic.com/image/thumb/640x640bb.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewAppleMusicExtractor(tt.catalog, Options{HTTPClient: srv.Client()})
			extractor.lookupURL = srv.URL + "/lookup"

			meta, err := extractor.Extract(context.Background(), "1558534271")
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if meta.Title != "Never Gonna Give You Up" || meta.Artist != "Rick Astley" {
				t.Errorf("Extract() = %q by %q", meta.Title, meta.Artist)
			}
			if meta.ISRC != tt.wantISRC {
				t.Errorf("ISRC = %q, want %q", meta.ISRC, tt.wantISRC)
			}
			if meta.ThumbnailURL != tt.wantThumbnail {
				t.Errorf("ThumbnailURL = %q, want %q", meta.ThumbnailURL, tt.wantThumbnail)
			}
			if meta.CanonicalURL != "https://music.apple.com/song/1558534271" {
				t.Errorf("CanonicalURL = %q", meta.CanonicalURL)
			}
			if meta.SourcePlatform != PlatformAppleMusic {
				t.Errorf("SourcePlatform = %q", meta.SourcePlatform)
			}
		})
	}
}

func TestAppleMusicExtractor_NotFound(t *testing.T) {
	t.Helper()

	srv := newITunesServer(t)
	extractor := NewAppleMusicExtractor(&fakeCatalog{}, Options{HTTPClient: srv.Client()})
	extractor.lookupURL = srv.URL + "/lookup"

	if _, err := extractor.Extract(context.Background(), "999"); err == nil {
		t.Error("Extract() error = nil for an unknown id")
	}
}

func TestAppleMusicSearcher_Search(t *testing.T) {
	t.Helper()

	links, err := NewAppleMusicSearcher().Search(context.Background(), TrackQuery{Artist: "Rick Astley", Title: "Never Gonna Give You Up"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := "https://music.apple.com/search?term=Rick+Astley+Never+Gonna+Give+You+Up"
	if len(links) != 1 || links[0].URL != want || !links[0].IsSearchFallback || links[0].Platform != PlatformAppleMusic {
		t.Errorf("Search() = %+v, want fallback %q", links, want)
	}
}
