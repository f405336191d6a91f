package i18n

// Message keys used across the API.
const (
	ErrURLMissing             = "error.url.missing"
	ErrURLUnsupported         = "error.url.unsupported"
	ErrURLUnsupportedShort    = "error.url.unsupported_short"
	ErrTrackNotFound          = "error.track.not_found"
	ErrTrackNotFoundShort     = "error.track.not_found_short"
	ErrTidalNotFound          = "error.tidal.not_found"
	ErrYouTubeNotFound        = "error.youtube.not_found"
	ErrShareInvalid           = "error.share.invalid"
	ErrSharePlatform          = "error.share.unsupported_platform"
	ErrBodyInvalidJSON        = "error.body.invalid_json"
	ErrBatchURLsRequired      = "error.batch.urls_required"
	ErrBatchTooMany           = "error.batch.too_many"
	ErrPlaylistMissingTitle   = "error.playlist.missing_title"
	ErrPlaylistTracksRequired = "error.playlist.tracks_required"
	ErrPlaylistTooManyTracks  = "error.playlist.too_many_tracks"
	ErrPlaylistInvalidTrack   = "error.playlist.invalid_track"
	ErrPlaylistOriginalURL    = "error.playlist.original_url_required"
	ErrPlaylistCreateFailed   = "error.playlist.create_failed"
	ErrPlaylistNotFound       = "error.playlist.not_found"
	ErrPlaylistExpired        = "error.playlist.expired"
	ErrPlaylistTokenRequired  = "error.playlist.token_required"
	ErrPlaylistInvalidToken   = "error.playlist.invalid_token"
	ErrEndpointNotFound       = "error.endpoint.not_found"
	ErrMethodNotAllowed       = "error.endpoint.method_not_allowed"
	ErrInternal               = "error.internal"
	StatusPlaylistDeleted     = "status.playlist.deleted"
	StatusServiceOK           = "status.service.ok"
	StatusServiceReady        = "status.service.ready"
	StatusServiceDegraded     = "status.service.degraded"
)

// englishMessages contains all English translations
var englishMessages = map[string]string{
	ErrURLMissing:             "Missing url parameter",
	ErrURLUnsupported:         "Unsupported URL format. Supported platforms: Spotify, Apple Music, YouTube, Deezer, TIDAL, Amazon Music",
	ErrURLUnsupportedShort:    "Unsupported URL format",
	ErrTrackNotFound:          "Track not found. Please check the URL and try again.",
	ErrTrackNotFoundShort:     "Track not found",
	ErrTidalNotFound:          "TIDAL track not found. The track might be unavailable or the ID is incorrect.",
	ErrYouTubeNotFound:        "Could not extract track info from YouTube video. The video might not be a music track.",
	ErrShareInvalid:           "Invalid share link format",
	ErrSharePlatform:          "Unsupported platform: %s",
	ErrBodyInvalidJSON:        "Invalid JSON body",
	ErrBatchURLsRequired:      "Invalid request: urls array required",
	ErrBatchTooMany:           "Maximum %d URLs allowed",
	ErrPlaylistMissingTitle:   "Missing title",
	ErrPlaylistTracksRequired: "Tracks required",
	ErrPlaylistTooManyTracks:  "Too many tracks (maximum %d)",
	ErrPlaylistInvalidTrack:   "Invalid track data",
	ErrPlaylistOriginalURL:    "Track originalUrl required",
	ErrPlaylistCreateFailed:   "Failed to create playlist",
	ErrPlaylistNotFound:       "Playlist not found",
	ErrPlaylistExpired:        "Playlist expired",
	ErrPlaylistTokenRequired:  "Delete token required",
	ErrPlaylistInvalidToken:   "Invalid delete token",
	ErrEndpointNotFound:       "Endpoint not found",
	ErrMethodNotAllowed:       "Method not allowed",
	ErrInternal:               "Internal server error",
	StatusPlaylistDeleted:     "deleted",
	StatusServiceOK:           "ok",
	StatusServiceReady:        "ready",
	StatusServiceDegraded:     "degraded",
}
