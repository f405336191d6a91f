package musiclink

import (
	"errors"
	"testing"
)

func TestRecognizer_Recognize(t *testing.T) {
	t.Helper()

	recognizer := NewRecognizer()

	tests := []struct {
		name         string
		url          string
		wantPlatform Platform
		wantID       string
	}{
		{"Spotify track", "https://open.spotify.com/track/4PTG3Z6ehGkBFwjybzWkR8", PlatformSpotify, "4PTG3Z6ehGkBFwjybzWkR8"},
		{"Spotify intl with query", "https://open.spotify.com/intl-de/track/4PTG3Z6ehGkBFwjybzWkR8?si=abc", PlatformSpotify, "4PTG3Z6ehGkBFwjybzWkR8"},
		{"Spotify embed", "https://open.spotify.com/embed/track/4PTG3Z6ehGkBFwjybzWkR8", PlatformSpotify, "4PTG3Z6ehGkBFwjybzWkR8"},
		{"Spotify URI", "spotify:track:4PTG3Z6ehGkBFwjybzWkR8", PlatformSpotify, "4PTG3Z6ehGkBFwjybzWkR8"},
		{"Spotify without scheme", "open.spotify.com/track/4PTG3Z6ehGkBFwjybzWkR8", PlatformSpotify, "4PTG3Z6ehGkBFwjybzWkR8"},
		{"Apple Music album with i", "https://music.apple.com/us/album/whenever-you-need-somebody/1558533900?i=1558534271", PlatformAppleMusic, "1558534271"},
		{"Apple Music song", "https://music.apple.com/us/song/never-gonna-give-you-up/1558534271", PlatformAppleMusic, "1558534271"},
		{"iTunes album with i", "https://itunes.apple.com/us/album/id1558533900?i=1558534271&uo=4", PlatformAppleMusic, "1558534271"},
		{"YouTube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", PlatformYouTube, "dQw4w9WgXcQ"},
		{"YouTube watch with extra params", "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=42", PlatformYouTube, "dQw4w9WgXcQ"},
		{"YouTube Music", "https://music.youtube.com/watch?v=dQw4w9WgXcQ&list=RDAMVM", PlatformYouTube, "dQw4w9WgXcQ"},
		{"YouTube short link", "https://youtu.be/dQw4w9WgXcQ?si=xyz", PlatformYouTube, "dQw4w9WgXcQ"},
		{"YouTube shorts", "https://youtube.com/shorts/dQw4w9WgXcQ", PlatformYouTube, "dQw4w9WgXcQ"},
		{"Deezer", "https://www.deezer.com/track/781592622", PlatformDeezer, "781592622"},
		{"Deezer with language", "https://www.deezer.com/fr/track/781592622", PlatformDeezer, "781592622"},
		{"TIDAL", "https://tidal.com/track/258735410", PlatformTidal, "258735410"},
		{"TIDAL browse", "https://tidal.com/browse/track/258735410?u", PlatformTidal, "258735410"},
		{"TIDAL listen", "https://listen.tidal.com/track/258735410", PlatformTidal, "258735410"},
		{"TIDAL album track", "https://listen.tidal.com/album/258735409/track/258735410", PlatformTidal, "258735410"},
		{"Amazon track ASIN", "https://music.amazon.com/albums/B08X123456?trackAsin=B08X654321", PlatformAmazonMusic, "B08X654321"},
		{"Amazon tracks", "https://music.amazon.de/tracks/B08X654321", PlatformAmazonMusic, "B08X654321"},
		{"Amazon album", "https://music.amazon.com/albums/B08X123456", PlatformAmazonMusic, "B08X123456"},
		{"Amazon music player", "https://www.amazon.co.uk/music/player/tracks/B08X654321", PlatformAmazonMusic, "B08X654321"},
		{"Uppercase host", "HTTPS://OPEN.SPOTIFY.COM/track/4PTG3Z6ehGkBFwjybzWkR8", PlatformSpotify, "4PTG3Z6ehGkBFwjybzWkR8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := recognizer.Recognize(tt.url)
			if err != nil {
				t.Fatalf("Recognize(%q) error = %v", tt.url, err)
			}
			if got.Platform != tt.wantPlatform {
				t.Errorf("Platform = %q, want %q", got.Platform, tt.wantPlatform)
			}
			if got.NativeID != tt.wantID {
				t.Errorf("NativeID = %q, want %q", got.NativeID, tt.wantID)
			}
		})
	}
}

func TestRecognizer_Unrecognized(t *testing.T) {
	t.Helper()

	recognizer := NewRecognizer()

	for _, raw := range []string{
		"",
		"   ",
		"not-a-url",
		"https://example.com/track/123",
		"https://open.spotify.com/album/4PTG3Z6ehGkBFwjybzWkR8",
		"https://open.spotify.com/track/tooShort",
		"https://www.deezer.com/album/12345",
		"https://music.apple.com/us/album/whenever-you-need-somebody/1558533900",
		"https://www.beatport.com/track/test/12345",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := recognizer.Recognize(raw)
			if !errors.Is(err, ErrNotRecognized) {
				t.Errorf("Recognize(%q) error = %v, want ErrNotRecognized", raw, err)
			}
			if recognizer.CanRecognize(raw) {
				t.Errorf("CanRecognize(%q) = true, want false", raw)
			}
		})
	}
}

func TestRecognizer_FirstRuleWins(t *testing.T) {
	t.Helper()

	// Both patterns match; the earlier one decides.
	rules := DefaultRules()
	recognizer := NewRecognizer(
		Rule{Platform: PlatformDeezer, Pattern: rules[0].Pattern},
		rules[0],
	)

	got, err := recognizer.Recognize("https://open.spotify.com/track/4PTG3Z6ehGkBFwjybzWkR8")
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if got.Platform != PlatformDeezer {
		t.Errorf("Platform = %q, want %q", got.Platform, PlatformDeezer)
	}
}
