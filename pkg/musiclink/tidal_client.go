package musiclink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

const (
	tidalAuthURL      = "https://auth.tidal.com/v1/oauth2/token"
	tidalOpenAPIURL   = "https://openapi.tidal.com"
	tidalPublicAPIURL = "https://api.tidal.com"
	// tidalTokenTimeout bounds a token fetch independently of the caller that started it.
	tidalTokenTimeout = 10 * time.Second
	// DefaultTidalCountryCode is used when no country code is configured.
	DefaultTidalCountryCode = "US"
)

// ErrNoCredentials is returned by authenticated calls when no client credentials are configured.
var ErrNoCredentials = errors.New("tidal client credentials not configured")

// TidalClient talks to the TIDAL catalog APIs. The access token is acquired lazily,
// kept in memory, and refreshed through a single flight shared by concurrent callers.
type TidalClient struct {
	httpClient  *http.Client
	credentials *clientcredentials.Config
	countryCode string
	apiURL      string
	publicURL   string

	mu      sync.Mutex
	token   *oauth2.Token
	refresh singleflight.Group
}

// NewTidalClient creates a TIDAL client. Empty credentials limit it to public endpoints.
func NewTidalClient(clientID, clientSecret, countryCode string, httpClient *http.Client) *TidalClient {
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	if countryCode == "" {
		countryCode = DefaultTidalCountryCode
	}

	c := &TidalClient{
		httpClient:  httpClient,
		countryCode: countryCode,
		apiURL:      tidalOpenAPIURL,
		publicURL:   tidalPublicAPIURL,
	}
	if clientID != "" && clientSecret != "" {
		c.credentials = &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tidalAuthURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
	}
	return c
}

// HasCredentials reports whether official API calls are possible.
func (c *TidalClient) HasCredentials() bool {
	return c.credentials != nil
}

func (c *TidalClient) accessToken(ctx context.Context) (string, error) {
	if c.credentials == nil {
		return "", ErrNoCredentials
	}

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token.Valid() {
		return token.AccessToken, nil
	}

	// The fetch is shared, so it must outlive the caller that happened to start it.
	fetchCtx := context.WithoutCancel(ctx)
	flight := c.refresh.DoChan("token", func() (any, error) {
		tokenCtx, cancel := context.WithTimeout(fetchCtx, tidalTokenTimeout)
		defer cancel()
		fresh, err := c.credentials.Token(context.WithValue(tokenCtx, oauth2.HTTPClient, c.httpClient))
		if err != nil {
			return nil, fmt.Errorf("failed to acquire tidal token: %w", err)
		}
		c.mu.Lock()
		c.token = fresh
		c.mu.Unlock()
		return fresh, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-flight:
		if result.Err != nil {
			return "", result.Err
		}
		return result.Val.(*oauth2.Token).AccessToken, nil
	}
}

// invalidate drops the cached token unless another caller already replaced it.
func (c *TidalClient) invalidate(stale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != nil && c.token.AccessToken == stale {
		c.token = nil
	}
}

// getAuthorized performs an authenticated GET, re-acquiring the token and retrying exactly once on 401.
func (c *TidalClient) getAuthorized(ctx context.Context, reqURL string, dest any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	err = getJSON(ctx, c.httpClient, reqURL, "TIDAL API", bearer(token), dest)
	if !IsStatus(err, http.StatusUnauthorized) {
		return err
	}

	c.invalidate(token)
	token, err = c.accessToken(ctx)
	if err != nil {
		return err
	}
	return getJSON(ctx, c.httpClient, reqURL, "TIDAL API", bearer(token), dest)
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

type tidalTrackResource struct {
	Title   string `json:"title"`
	ISRC    string `json:"isrc"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Title      string `json:"title"`
		ImageCover []struct {
			URL string `json:"url"`
		} `json:"imageCover"`
	} `json:"album"`
}

// Track looks a track up through the official API.
func (c *TidalClient) Track(ctx context.Context, id string) (*TrackMetadata, error) {
	reqURL := fmt.Sprintf("%s/v2/tracks/%s?countryCode=%s", c.apiURL, url.PathEscape(id), c.countryCode)

	var resp struct {
		Resource tidalTrackResource `json:"resource"`
	}
	if err := c.getAuthorized(ctx, reqURL, &resp); err != nil {
		return nil, err
	}

	res := resp.Resource
	if res.Title == "" {
		return nil, errors.New("tidal track resource has no title")
	}

	meta := &TrackMetadata{
		ID:             id,
		Title:          res.Title,
		Album:          res.Album.Title,
		ISRC:           res.ISRC,
		CanonicalURL:   TidalTrackURL(id),
		SourcePlatform: PlatformTidal,
	}
	if len(res.Artists) > 0 {
		meta.Artist = res.Artists[0].Name
	}
	if covers := res.Album.ImageCover; len(covers) > 0 {
		// Highest resolution comes last.
		meta.ThumbnailURL = covers[len(covers)-1].URL
	}
	return meta, nil
}

type tidalPublicTrack struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	ISRC   string `json:"isrc"`
	Artist *struct {
		Name string `json:"name"`
	} `json:"artist"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Title string `json:"title"`
		Cover string `json:"cover"`
	} `json:"album"`
}

// PublicTrack looks a track up through the unauthenticated public API.
func (c *TidalClient) PublicTrack(ctx context.Context, id string) (*TrackMetadata, error) {
	reqURL := fmt.Sprintf("%s/v1/tracks/%s?countryCode=%s", c.publicURL, url.PathEscape(id), c.countryCode)

	var track tidalPublicTrack
	if err := getJSON(ctx, c.httpClient, reqURL, "TIDAL public API", nil, &track); err != nil {
		return nil, err
	}
	if track.Title == "" {
		return nil, errors.New("tidal public track has no title")
	}

	meta := &TrackMetadata{
		ID:             id,
		Title:          track.Title,
		Album:          track.Album.Title,
		ISRC:           track.ISRC,
		CanonicalURL:   TidalTrackURL(id),
		SourcePlatform: PlatformTidal,
	}
	switch {
	case track.Artist != nil && track.Artist.Name != "":
		meta.Artist = track.Artist.Name
	case len(track.Artists) > 0:
		meta.Artist = track.Artists[0].Name
	}
	if track.Album.Cover != "" {
		meta.ThumbnailURL = fmt.Sprintf("https://resources.tidal.com/images/%s/640x640.jpg",
			strings.ReplaceAll(track.Album.Cover, "-", "/"))
	}
	return meta, nil
}

// SearchTrackID returns the id of the first catalog hit for the query.
func (c *TidalClient) SearchTrackID(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("countryCode", c.countryCode)
	params.Set("limit", "1")
	reqURL := c.apiURL + "/v2/searchresults/tracks?" + params.Encode()

	var resp struct {
		Tracks []struct {
			Resource struct {
				ID json.Number `json:"id"`
			} `json:"resource"`
		} `json:"tracks"`
	}
	if err := c.getAuthorized(ctx, reqURL, &resp); err != nil {
		return "", err
	}
	if len(resp.Tracks) == 0 || resp.Tracks[0].Resource.ID == "" {
		return "", nil
	}
	return resp.Tracks[0].Resource.ID.String(), nil
}

// TidalTrackURL returns the canonical web URL of a TIDAL track.
func TidalTrackURL(id string) string {
	return "https://tidal.com/browse/track/" + id
}
