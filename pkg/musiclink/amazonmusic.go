package musiclink

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// amazonMusicBaseURL is the Amazon Music web player.
const amazonMusicBaseURL = "https://music.amazon.com"

// AmazonMusicExtractor resolves Amazon Music ASINs by scraping the public web player.
type AmazonMusicExtractor struct {
	catalog SpotifyCatalog
	opts    Options
	chain   *Chain
	baseURL string
}

// NewAmazonMusicExtractor creates an Amazon Music extractor.
func NewAmazonMusicExtractor(catalog SpotifyCatalog, opts Options) *AmazonMusicExtractor {
	opts = opts.withDefaults()
	e := &AmazonMusicExtractor{
		catalog: catalog,
		opts:    opts,
		baseURL: amazonMusicBaseURL,
	}
	e.chain = NewChain(PlatformAmazonMusic, opts, Strategy{Name: "scrape", Attempt: e.scrape})
	return e
}

// Platform returns PlatformAmazonMusic.
func (e *AmazonMusicExtractor) Platform() Platform {
	return PlatformAmazonMusic
}

// Extract runs the Amazon Music chain.
func (e *AmazonMusicExtractor) Extract(ctx context.Context, nativeID string) (*TrackMetadata, error) {
	meta, _, err := e.chain.Run(ctx, nativeID)
	return meta, err
}

// scrape tries the track page, then the album page, for the same ASIN.
func (e *AmazonMusicExtractor) scrape(ctx context.Context, id string) (*TrackMetadata, error) {
	var errs []error
	for _, kind := range []string{"tracks", "albums"} {
		pageURL := fmt.Sprintf("%s/%s/%s", e.baseURL, kind, id)
		page, err := fetchPage(ctx, e.opts.HTTPClient, pageURL, "Amazon Music")
		if err != nil {
			errs = append(errs, err)
			continue
		}

		title, artist := extractAmazonTrackInfo(page)
		if title == "" || artist == "" {
			errs = append(errs, fmt.Errorf("no track information on %s", pageURL))
			continue
		}

		native := &TrackMetadata{
			ID:             id,
			Title:          title,
			Artist:         artist,
			ThumbnailURL:   page.Meta["og:image"],
			CanonicalURL:   AmazonMusicTrackURL(id),
			SourcePlatform: PlatformAmazonMusic,
		}
		enriched, _ := enrichFromSpotify(ctx, e.catalog, native)
		return enriched, nil
	}
	return nil, errors.Join(errs...)
}

// extractAmazonTrackInfo reads OpenGraph tags first and falls back to the <title> tag.
func extractAmazonTrackInfo(page *pageMetadata) (title, artist string) {
	title, artist, _ = page.trackFields()
	artist = trimAmazonSuffix(artist)
	if title != "" && artist != "" {
		return title, artist
	}

	tagTitle, tagArtist := splitTitleText(page.Title, " on Amazon Music", " by ")
	if title == "" {
		title = tagTitle
	}
	if artist == "" {
		artist = trimAmazonSuffix(tagArtist)
	}
	return title, artist
}

func trimAmazonSuffix(s string) string {
	if before, _, found := strings.Cut(s, " on Amazon Music"); found {
		return strings.TrimSpace(before)
	}
	return s
}

// AmazonMusicTrackURL returns a canonical Amazon Music track URL.
func AmazonMusicTrackURL(id string) string {
	return amazonMusicBaseURL + "/tracks/" + id
}

// AmazonMusicSearcher produces an Amazon Music search link. There is no public
// search API, so the result is always a search fallback.
type AmazonMusicSearcher struct{}

// NewAmazonMusicSearcher creates an Amazon Music searcher.
func NewAmazonMusicSearcher() *AmazonMusicSearcher {
	return &AmazonMusicSearcher{}
}

// Platform returns PlatformAmazonMusic.
func (s *AmazonMusicSearcher) Platform() Platform {
	return PlatformAmazonMusic
}

// Search returns the Amazon Music search page for the query.
func (s *AmazonMusicSearcher) Search(_ context.Context, query TrackQuery) ([]PlatformLink, error) {
	return []PlatformLink{
		NewSearchLink(PlatformAmazonMusic, amazonMusicBaseURL+"/search/"+plusQuery(query.Text())),
	}, nil
}
