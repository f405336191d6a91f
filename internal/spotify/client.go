// Package spotify provides the Spotify Web API catalog used as the identity hub for track resolution.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"unitune/internal/core"
	"unitune/pkg/musiclink"
)

const (
	// searchLimit is the number of results requested per search; the first hit is accepted.
	searchLimit = 1
	// requestTimeout bounds every token and API round trip.
	requestTimeout = 15 * time.Second
)

var (
	// ErrNotAuthenticated is returned when the catalog is used before Authenticate.
	ErrNotAuthenticated = errors.New("spotify client not authenticated")
	// ErrMissingCredentials is returned when no client id or secret is configured.
	ErrMissingCredentials = errors.New("spotify client credentials not configured")
	// ErrNoResults is returned when a search matched nothing.
	ErrNoResults = errors.New("no tracks found")
)

// Client is an app-only (client credentials) Spotify catalog client.
type Client struct {
	config     *core.SpotifyConfig
	logger     *zap.Logger
	client     *spotify.Client
	httpClient *http.Client // transport for the token and API calls
	tokenURL   string
	baseURL    string
}

func NewClient(config *core.SpotifyConfig, logger *zap.Logger) *Client {
	return &Client{
		config:     config,
		logger:     logger,
		httpClient: &http.Client{Timeout: requestTimeout},
		tokenURL:   spotifyauth.TokenURL,
	}
}

// Authenticate fetches an app token and prepares the API client. The returned
// client refreshes its token on its own for as long as ctx lives.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.config.ClientID == "" || c.config.ClientSecret == "" {
		return ErrMissingCredentials
	}

	credentials := &clientcredentials.Config{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		TokenURL:     c.tokenURL,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	if _, err := credentials.Token(ctx); err != nil {
		return fmt.Errorf("failed to acquire spotify token: %w", err)
	}

	var opts []spotify.ClientOption
	if c.baseURL != "" {
		opts = append(opts, spotify.WithBaseURL(c.baseURL))
	}
	c.client = spotify.New(credentials.Client(ctx), opts...)

	c.logger.Info("Authenticated with Spotify using client credentials")
	return nil
}

// GetTrack looks a track up by its Spotify id.
func (c *Client) GetTrack(ctx context.Context, trackID string) (*musiclink.TrackMetadata, error) {
	if c.client == nil {
		return nil, ErrNotAuthenticated
	}

	track, err := c.client.GetTrack(ctx, spotify.ID(trackID))
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}

	return c.convertSpotifyTrack(track), nil
}

// SearchTrack tries an ISRC search first, then an artist/track field search.
// The first hit of either is accepted.
func (c *Client) SearchTrack(ctx context.Context, query musiclink.TrackQuery) (*musiclink.TrackMetadata, error) {
	if c.client == nil {
		return nil, ErrNotAuthenticated
	}

	var queries []string
	if query.ISRC != "" {
		queries = append(queries, "isrc:"+query.ISRC)
	}
	if query.Artist != "" && query.Title != "" {
		queries = append(queries, fmt.Sprintf("artist:%s track:%s", query.Artist, query.Title))
	}

	var lastErr error = ErrNoResults
	for _, q := range queries {
		results, err := c.client.Search(ctx, q, spotify.SearchTypeTrack, spotify.Limit(searchLimit))
		if err != nil {
			c.logger.Debug("Spotify search failed", zap.String("query", q), zap.Error(err))
			lastErr = fmt.Errorf("search failed: %w", err)
			continue
		}
		if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
			continue
		}
		return c.convertSpotifyTrack(&results.Tracks.Tracks[0]), nil
	}

	return nil, lastErr
}

func (c *Client) convertSpotifyTrack(track *spotify.FullTrack) *musiclink.TrackMetadata {
	id := string(track.ID)

	meta := &musiclink.TrackMetadata{
		ID:             id,
		Title:          track.Name,
		Album:          track.Album.Name,
		ISRC:           strings.ToUpper(track.ExternalIDs["isrc"]),
		CanonicalURL:   track.ExternalURLs["spotify"],
		SourcePlatform: musiclink.PlatformSpotify,
	}
	if len(track.Artists) > 0 {
		meta.Artist = track.Artists[0].Name
	}
	if meta.CanonicalURL == "" {
		meta.CanonicalURL = musiclink.SpotifyTrackURL(id)
	}

	largest := 0
	for _, image := range track.Album.Images {
		if meta.ThumbnailURL == "" || int(image.Width) > largest {
			meta.ThumbnailURL = image.URL
			largest = int(image.Width)
		}
	}

	return meta
}
