package musiclink

import (
	"errors"
	"testing"
)

func TestEncodeShareID(t *testing.T) {
	t.Helper()

	tests := []struct {
		platform Platform
		id       string
		want     string
	}{
		{PlatformTidal, "258735410", "dGlkYWw6dHJhY2s6MjU4NzM1NDEw"},
		{PlatformSpotify, "3n3Ppam7vgaVa1iaRUc9Lp", "c3BvdGlmeTp0cmFjazozbjNQcGFtN3ZnYVZhMWlhUlVjOUxw"},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			if got := EncodeShareID(tt.platform, ShareKindTrack, tt.id); got != tt.want {
				t.Errorf("EncodeShareID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeShareID(t *testing.T) {
	t.Helper()

	tests := []struct {
		name    string
		encoded string
		want    ShareID
		wantErr bool
	}{
		{"unpadded", "dGlkYWw6dHJhY2s6MjU4NzM1NDEw", ShareID{"tidal", "track", "258735410"}, false},
		{"padded", EncodeShareID(PlatformDeezer, "", "1") + "==", ShareID{"deezer", "track", "1"}, false},
		{"single part", EncodeShareID(PlatformDeezer, "track", "a:b")[:8], ShareID{}, true},
		{"not base64", "!!!", ShareID{}, true},
		{"too many parts", EncodeShareID(PlatformDeezer, "track", "a:b"), ShareID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeShareID(tt.encoded)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidShareID) {
					t.Errorf("DecodeShareID() error = %v, want ErrInvalidShareID", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeShareID() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeShareID() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLegacyShareID(t *testing.T) {
	t.Helper()

	legacy := "https%3A%2F%2Ftidal.com%2Ftrack%2F258735410"
	if !IsLegacyShareID(legacy) {
		t.Fatalf("IsLegacyShareID(%q) = false", legacy)
	}
	if IsLegacyShareID("dGlkYWw6dHJhY2s6MjU4NzM1NDEw") {
		t.Error("IsLegacyShareID() = true for a base64 id")
	}

	got, err := DecodeLegacyShareID(legacy)
	if err != nil {
		t.Fatalf("DecodeLegacyShareID() error = %v", err)
	}
	if got != "https://tidal.com/track/258735410" {
		t.Errorf("DecodeLegacyShareID() = %q", got)
	}
}

func TestShareURL(t *testing.T) {
	t.Helper()

	got := ShareURL("https://unitune.art/", PlatformSpotify, "3n3Ppam7vgaVa1iaRUc9Lp")
	if got != "https://unitune.art/s/c3BvdGlmeTp0cmFjazozbjNQcGFtN3ZnYVZhMWlhUlVjOUxw" {
		t.Errorf("ShareURL() = %q", got)
	}
}

func TestTrackURL_RoundTripsThroughRecognizer(t *testing.T) {
	t.Helper()

	recognizer := NewRecognizer()
	ids := map[Platform]string{
		PlatformSpotify:      "4PTG3Z6ehGkBFwjybzWkR8",
		PlatformTidal:        "258735410",
		PlatformAppleMusic:   "1558534271",
		PlatformAmazonMusic:  "B08X654321",
		PlatformDeezer:       "781592622",
		PlatformYouTube:      "dQw4w9WgXcQ",
		PlatformYouTubeMusic: "dQw4w9WgXcQ",
	}

	for platform, id := range ids {
		t.Run(string(platform), func(t *testing.T) {
			trackURL, ok := TrackURL(platform, id)
			if !ok {
				t.Fatalf("TrackURL(%q) not supported", platform)
			}
			got, err := recognizer.Recognize(trackURL)
			if err != nil {
				t.Fatalf("Recognize(%q) error = %v", trackURL, err)
			}
			if got.NativeID != id {
				t.Errorf("NativeID = %q, want %q", got.NativeID, id)
			}
		})
	}

	if _, ok := TrackURL("napster", "1"); ok {
		t.Error("TrackURL() accepted an unknown platform")
	}
}
