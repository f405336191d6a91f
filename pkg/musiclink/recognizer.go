package musiclink

import (
	"regexp"
	"strings"
)

// Rule maps a link shape to a platform. The first capture group of Pattern is the native id.
type Rule struct {
	Platform Platform
	Pattern  *regexp.Regexp
}

// schemeRegex matches any URL or app scheme, e.g. "https://" or "music://".
var schemeRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// trailer accepts an optional path tail, query string or fragment after the id.
const trailer = `(?:[/?#].*)?$`

// DefaultRules returns the built-in rules in platform declaration order:
// Spotify, Apple Music, YouTube, Deezer, TIDAL, Amazon Music.
func DefaultRules() []Rule {
	return []Rule{
		// Spotify.
		{PlatformSpotify, regexp.MustCompile(
			`^(?i:open\.spotify\.com)/(?:intl-[A-Za-z-]+/)?(?:embed/)?track/([A-Za-z0-9]{22})` + trailer)},
		{PlatformSpotify, regexp.MustCompile(`^(?i:spotify):track:([A-Za-z0-9]{22})$`)},

		// Apple Music, including legacy iTunes album links carrying ?i=.
		{PlatformAppleMusic, regexp.MustCompile(
			`^(?i:(?:music|itunes)\.apple\.com)/(?:[A-Za-z]{2}/)?album/(?:[^/?#]+/)?(?:id)?\d+/?\?(?:[^#]*&)?i=(\d+)(?:[&#].*)?$`)},
		{PlatformAppleMusic, regexp.MustCompile(
			`^(?i:music\.apple\.com)/(?:[A-Za-z]{2}/)?song/(?:[^/?#]+/)?(\d+)` + trailer)},

		// YouTube and YouTube Music.
		{PlatformYouTube, regexp.MustCompile(
			`^(?i:(?:www\.|m\.|music\.)?youtube\.com)/watch\?(?:[^#]*&)?v=([A-Za-z0-9_-]{11})(?:[&#].*)?$`)},
		{PlatformYouTube, regexp.MustCompile(`^(?i:youtu\.be)/([A-Za-z0-9_-]{11})` + trailer)},
		{PlatformYouTube, regexp.MustCompile(
			`^(?i:(?:www\.|m\.)?youtube\.com)/shorts/([A-Za-z0-9_-]{11})` + trailer)},

		// Deezer, with or without a language segment.
		{PlatformDeezer, regexp.MustCompile(
			`^(?i:(?:www\.)?deezer\.com)/(?:[A-Za-z]{2}(?:-[A-Za-z]{2})?/)?track/(\d+)` + trailer)},

		// TIDAL.
		{PlatformTidal, regexp.MustCompile(
			`^(?i:(?:www\.|listen\.)?tidal\.com)/(?:browse/)?(?:album/\d+/)?track/(\d+)` + trailer)},

		// Amazon Music. The trackAsin form must precede the bare album form.
		{PlatformAmazonMusic, regexp.MustCompile(
			`^(?i:music\.amazon\.[a-z.]+)/albums/[A-Za-z0-9]+/?\?(?:[^#]*&)?trackAsin=([A-Za-z0-9]+)(?:[&#].*)?$`)},
		{PlatformAmazonMusic, regexp.MustCompile(
			`^(?i:music\.amazon\.[a-z.]+)/(?:tracks|albums)/([A-Za-z0-9]+)` + trailer)},
		{PlatformAmazonMusic, regexp.MustCompile(
			`^(?i:(?:www\.)?amazon\.[a-z.]+)/music/player/(?:tracks|albums)/([A-Za-z0-9]+)` + trailer)},
	}
}

// Recognizer classifies links into (platform, native id) pairs. It does no I/O.
type Recognizer struct {
	rules []Rule
}

// NewRecognizer creates a recognizer that tries rules in order. Without rules it uses DefaultRules.
func NewRecognizer(rules ...Rule) *Recognizer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Recognizer{rules: rules}
}

// Recognize returns the identifier of the first rule matching the link.
func (r *Recognizer) Recognize(raw string) (TrackIdentifier, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return TrackIdentifier{}, ErrNotRecognized
	}
	candidate = schemeRegex.ReplaceAllString(candidate, "")

	for _, rule := range r.rules {
		matches := rule.Pattern.FindStringSubmatch(candidate)
		if len(matches) > 1 && matches[1] != "" {
			return TrackIdentifier{Platform: rule.Platform, NativeID: matches[1]}, nil
		}
	}

	return TrackIdentifier{}, ErrNotRecognized
}

// CanRecognize reports whether any rule matches the link.
func (r *Recognizer) CanRecognize(raw string) bool {
	_, err := r.Recognize(raw)
	return err == nil
}
