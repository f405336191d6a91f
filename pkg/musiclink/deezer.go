package musiclink

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

const (
	deezerAPIURL = "https://api.deezer.com"
	deezerWebURL = "https://www.deezer.com"
)

// deezerTrack is the subset of the Deezer track object we read.
type deezerTrack struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	ISRC   string `json:"isrc"`
	Link   string `json:"link"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		Title   string `json:"title"`
		CoverXL string `json:"cover_xl"`
	} `json:"album"`
	// Deezer answers unknown ids with 200 and an error object.
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (t *deezerTrack) valid() bool {
	return t.Error == nil && t.ID != 0
}

func (t *deezerTrack) trackURL() string {
	if t.Link != "" {
		return t.Link
	}
	return DeezerTrackURL(strconv.FormatInt(t.ID, 10))
}

// DeezerTrackURL returns the canonical web URL of a Deezer track.
func DeezerTrackURL(id string) string {
	return deezerWebURL + "/track/" + id
}

// DeezerExtractor resolves Deezer track ids through the public API.
type DeezerExtractor struct {
	catalog SpotifyCatalog
	opts    Options
	chain   *Chain
	apiURL  string
}

// NewDeezerExtractor creates a Deezer extractor.
func NewDeezerExtractor(catalog SpotifyCatalog, opts Options) *DeezerExtractor {
	opts = opts.withDefaults()
	e := &DeezerExtractor{
		catalog: catalog,
		opts:    opts,
		apiURL:  deezerAPIURL,
	}
	e.chain = NewChain(PlatformDeezer, opts, Strategy{Name: "api", Attempt: e.fromAPI})
	return e
}

// Platform returns PlatformDeezer.
func (e *DeezerExtractor) Platform() Platform {
	return PlatformDeezer
}

// Extract runs the Deezer chain.
func (e *DeezerExtractor) Extract(ctx context.Context, nativeID string) (*TrackMetadata, error) {
	meta, _, err := e.chain.Run(ctx, nativeID)
	return meta, err
}

func (e *DeezerExtractor) fromAPI(ctx context.Context, id string) (*TrackMetadata, error) {
	var track deezerTrack
	reqURL := fmt.Sprintf("%s/track/%s", e.apiURL, url.PathEscape(id))
	if err := getJSON(ctx, e.opts.HTTPClient, reqURL, "Deezer API", nil, &track); err != nil {
		return nil, err
	}
	if !track.valid() {
		return nil, deezerError(&track)
	}
	if track.Title == "" || track.Artist.Name == "" {
		return nil, errors.New("deezer track has no title or artist")
	}

	native := &TrackMetadata{
		ID:             id,
		Title:          track.Title,
		Artist:         track.Artist.Name,
		Album:          track.Album.Title,
		ISRC:           track.ISRC,
		ThumbnailURL:   track.Album.CoverXL,
		CanonicalURL:   track.trackURL(),
		SourcePlatform: PlatformDeezer,
	}
	enriched, _ := enrichFromSpotify(ctx, e.catalog, native)
	return enriched, nil
}

func deezerError(track *deezerTrack) error {
	if track.Error != nil {
		return fmt.Errorf("deezer error %s: %s", track.Error.Type, track.Error.Message)
	}
	return errors.New("deezer returned an empty track")
}

// DeezerSearcher finds tracks through the keyless Deezer API: ISRC lookup first,
// then an artist/track query, then a search page.
type DeezerSearcher struct {
	opts   Options
	apiURL string
}

// NewDeezerSearcher creates a Deezer searcher.
func NewDeezerSearcher(opts Options) *DeezerSearcher {
	return &DeezerSearcher{opts: opts.withDefaults(), apiURL: deezerAPIURL}
}

// Platform returns PlatformDeezer.
func (s *DeezerSearcher) Platform() Platform {
	return PlatformDeezer
}

// Search returns a verified Deezer link or a search fallback.
func (s *DeezerSearcher) Search(ctx context.Context, query TrackQuery) ([]PlatformLink, error) {
	if query.ISRC != "" {
		if track, err := s.byISRC(ctx, query.ISRC); err == nil {
			return []PlatformLink{deezerLink(track)}, nil
		}
	}

	if query.Artist != "" && query.Title != "" {
		if track, err := s.byQuery(ctx, query); err == nil {
			return []PlatformLink{deezerLink(track)}, nil
		}
	}

	return []PlatformLink{
		NewSearchLink(PlatformDeezer, deezerWebURL+"/search/"+plusQuery(query.Text())),
	}, nil
}

func (s *DeezerSearcher) byISRC(ctx context.Context, isrc string) (*deezerTrack, error) {
	var track deezerTrack
	reqURL := fmt.Sprintf("%s/track/isrc:%s", s.apiURL, url.PathEscape(isrc))
	if err := getJSON(ctx, s.opts.HTTPClient, reqURL, "Deezer API", nil, &track); err != nil {
		return nil, err
	}
	if !track.valid() {
		return nil, deezerError(&track)
	}
	return &track, nil
}

func (s *DeezerSearcher) byQuery(ctx context.Context, query TrackQuery) (*deezerTrack, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("artist:%q track:%q", query.Artist, query.Title))
	reqURL := s.apiURL + "/search?" + params.Encode()

	var resp struct {
		Data []deezerTrack `json:"data"`
	}
	if err := getJSON(ctx, s.opts.HTTPClient, reqURL, "Deezer API", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || resp.Data[0].ID == 0 {
		return nil, errors.New("deezer search returned no tracks")
	}
	return &resp.Data[0], nil
}

func deezerLink(track *deezerTrack) PlatformLink {
	return NewTrackLink(PlatformDeezer, track.trackURL(), strconv.FormatInt(track.ID, 10))
}
