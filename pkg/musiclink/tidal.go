package musiclink

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TidalExtractor resolves TIDAL track ids. Strategies: page scrape, official API, public API.
type TidalExtractor struct {
	client   *TidalClient
	catalog  SpotifyCatalog
	opts     Options
	chain    *Chain
	pageURLs []string // format strings taking the track id
}

// NewTidalExtractor creates a TIDAL extractor.
func NewTidalExtractor(client *TidalClient, catalog SpotifyCatalog, opts Options) *TidalExtractor {
	opts = opts.withDefaults()
	e := &TidalExtractor{
		client:  client,
		catalog: catalog,
		opts:    opts,
		pageURLs: []string{
			"https://tidal.com/browse/track/%s",
			"https://listen.tidal.com/track/%s",
		},
	}
	e.chain = NewChain(PlatformTidal, opts,
		Strategy{Name: "scrape", Attempt: e.scrape},
		Strategy{Name: "official", Attempt: e.client.Track},
		Strategy{Name: "public", Attempt: e.client.PublicTrack},
	)
	return e
}

// Platform returns PlatformTidal.
func (e *TidalExtractor) Platform() Platform {
	return PlatformTidal
}

// Extract runs the TIDAL fallback chain.
func (e *TidalExtractor) Extract(ctx context.Context, nativeID string) (*TrackMetadata, error) {
	meta, _, err := e.chain.Run(ctx, nativeID)
	return meta, err
}

// scrape reads the public track page and re-resolves the scraped artist and title through Spotify.
func (e *TidalExtractor) scrape(ctx context.Context, id string) (*TrackMetadata, error) {
	var errs []error
	for _, format := range e.pageURLs {
		pageURL := fmt.Sprintf(format, id)
		page, err := fetchPage(ctx, e.opts.HTTPClient, pageURL, "TIDAL")
		if err != nil {
			errs = append(errs, err)
			continue
		}

		title, artist, image := page.trackFields()
		if title == "" || artist == "" {
			title, artist = splitTidalTitle(page.Title)
		}
		if title == "" || artist == "" {
			errs = append(errs, fmt.Errorf("no track information on %s", pageURL))
			continue
		}

		native := &TrackMetadata{
			ID:             id,
			Title:          title,
			Artist:         artist,
			ThumbnailURL:   image,
			CanonicalURL:   pageURL,
			SourcePlatform: PlatformTidal,
		}
		enriched, _ := enrichFromSpotify(ctx, e.catalog, native)
		return enriched, nil
	}
	return nil, errors.Join(errs...)
}

// splitTidalTitle handles page titles like "Track Title – Artist Name | TIDAL".
func splitTidalTitle(titleText string) (title, artist string) {
	titleText = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(titleText), "| TIDAL"))
	if strings.Contains(titleText, " – ") {
		return splitTitleText(titleText, "", " – ")
	}
	return splitTitleText(titleText, "", " - ")
}
