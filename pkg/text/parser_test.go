package text

import (
	"testing"
)

// runStringTransformationTest is a helper to run tests for string transformation functions.
func runStringTransformationTest(t *testing.T, testName string,
	transformFunc func(string) string, testCases []struct {
		name     string
		input    string
		expected string
	}) {
	t.Helper()
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			result := transformFunc(tt.input)
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", testName, result, tt.expected)
			}
		})
	}
}

func TestParser_ExtractLink(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"Bare link",
			"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
			"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
		},
		{
			"Link inside a share message",
			"Check this out: https://tidal.com/browse/track/258735410! So good",
			"https://tidal.com/browse/track/258735410",
		},
		{
			"Tracking parameters removed",
			"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc123&utm_source=copy-link",
			"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
		},
		{
			"Track selector kept",
			"https://music.apple.com/us/album/x/1558533900?i=1558534271&utm_medium=share",
			"https://music.apple.com/us/album/x/1558533900?i=1558534271",
		},
		{
			"Amazon trackAsin kept",
			"https://music.amazon.com/albums/B08X123456?trackAsin=B08X654321&ref=dm_sh",
			"https://music.amazon.com/albums/B08X123456?ref=dm_sh&trackAsin=B08X654321",
		},
		{
			"Spotify URI before a link",
			"spotify:track:4uLU6hMCjMI75M1A2tKUQC or https://youtu.be/dQw4w9WgXcQ",
			"spotify:track:4uLU6hMCjMI75M1A2tKUQC",
		},
		{
			"First of several links",
			"https://youtu.be/dQw4w9WgXcQ, https://www.deezer.com/track/1",
			"https://youtu.be/dQw4w9WgXcQ",
		},
		{
			"No link",
			"  just some   text ",
			"just some text",
		},
		{
			"Full-width characters are normalized",
			"ｈｔｔｐｓ://youtu.be/dQw4w9WgXcQ",
			"https://youtu.be/dQw4w9WgXcQ",
		},
	}

	runStringTransformationTest(t, "ExtractLink", parser.ExtractLink, tests)
}

func TestParser_normalizeText(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Trim", "  hello  ", "hello"},
		{"Collapse whitespace and newlines", "a\n\n b\t c", "a b c"},
		{"NFKC", "ﬁne", "fine"},
	}

	runStringTransformationTest(t, "normalizeText", parser.normalizeText, tests)
}
