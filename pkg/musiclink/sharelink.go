package musiclink

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ShareKindTrack is the only content kind share links carry today.
const ShareKindTrack = "track"

const shareIDParts = 3

// ErrInvalidShareID is returned for share ids that do not decode to platform:kind:id.
var ErrInvalidShareID = errors.New("invalid share link format")

var legacySharePattern = regexp.MustCompile(`(?i)https?(?:%3A%2F%2F|://)`)

// ShareID is a decoded share link identifier.
type ShareID struct {
	Platform string
	Kind     string
	ID       string
}

// EncodeShareID returns the unpadded URL-safe base64 of "platform:kind:id".
func EncodeShareID(platform Platform, kind, id string) string {
	if kind == "" {
		kind = ShareKindTrack
	}
	identifier := fmt.Sprintf("%s:%s:%s", platform, kind, id)
	return base64.RawURLEncoding.EncodeToString([]byte(identifier))
}

// DecodeShareID reverses EncodeShareID. Padded input is accepted.
func DecodeShareID(encoded string) (ShareID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(encoded), "="))
	if err != nil {
		return ShareID{}, fmt.Errorf("%w: %w", ErrInvalidShareID, err)
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != shareIDParts {
		return ShareID{}, ErrInvalidShareID
	}
	return ShareID{Platform: parts[0], Kind: parts[1], ID: parts[2]}, nil
}

// IsLegacyShareID reports whether the share path is an old-style URL-encoded link.
func IsLegacyShareID(path string) bool {
	return legacySharePattern.MatchString(path)
}

// DecodeLegacyShareID unescapes an old-style share path into the original URL.
func DecodeLegacyShareID(path string) (string, error) {
	decoded, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidShareID, err)
	}
	return decoded, nil
}

// ShareURL builds "<base>/s/<encoded id>" for a track.
func ShareURL(baseURL string, platform Platform, id string) string {
	return strings.TrimRight(baseURL, "/") + "/s/" + EncodeShareID(platform, ShareKindTrack, id)
}

// TrackURL rebuilds a resolvable track URL from a platform tag and native id.
func TrackURL(platform Platform, id string) (string, bool) {
	if id == "" {
		return "", false
	}
	switch platform {
	case PlatformSpotify:
		return SpotifyTrackURL(id), true
	case PlatformTidal:
		return "https://tidal.com/track/" + id, true
	case PlatformAppleMusic:
		return AppleMusicSongURL(id), true
	case PlatformYouTube:
		return "https://youtube.com/watch?v=" + id, true
	case PlatformYouTubeMusic:
		return YouTubeMusicWatchURL(id), true
	case PlatformDeezer:
		return "https://deezer.com/track/" + id, true
	case PlatformAmazonMusic:
		return AmazonMusicTrackURL(id), true
	default:
		return "", false
	}
}
