package musiclink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	// commonUserAgent is the user agent string used for page scraping.
	commonUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// commonAcceptHeader is the accept header used for page scraping.
	commonAcceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	// expectedSplitParts is the expected number of parts when splitting title/artist strings.
	expectedSplitParts = 2
	// defaultHTTPTimeout is the default timeout for HTTP requests.
	defaultHTTPTimeout = 10 * time.Second
	// maxHTTPRedirects is the maximum number of HTTP redirects to follow.
	maxHTTPRedirects = 3
	// maxPageReadSize limits how much HTML is read from a scraped page.
	maxPageReadSize = 512 * 1024
	// maxJSONReadSize limits how much JSON is read from an API response.
	maxJSONReadSize = 2 * 1024 * 1024
)

// ErrTooManyRedirects is returned when too many redirects are encountered.
var ErrTooManyRedirects = errors.New("too many redirects")

// StatusError reports a non-success HTTP status from an upstream service.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

// newHTTPClient creates a new HTTP client with standard settings and redirect validation.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaultHTTPTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxHTTPRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}

// getJSON performs a GET request and decodes a JSON body into dest.
func getJSON(ctx context.Context, client *http.Client, reqURL, service string, header http.Header, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Service: service, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONReadSize)).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", service, err)
	}

	return nil
}

// fetchPage downloads an HTML page with browser headers and parses its metadata.
func fetchPage(ctx context.Context, client *http.Client, pageURL, service string) (*pageMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	// Set realistic browser headers.
	req.Header.Set("User-Agent", commonUserAgent)
	req.Header.Set("Accept", commonAcceptHeader)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Service: service, StatusCode: resp.StatusCode}
	}

	return parsePageMetadata(io.LimitReader(resp.Body, maxPageReadSize))
}

// pageMetadata is what scrapers read from a track page.
type pageMetadata struct {
	Meta   map[string]string // <meta property|name=... content=...>
	Title  string            // text of the first <title>
	JSONLD []map[string]any  // objects from application/ld+json scripts
}

func parsePageMetadata(r io.Reader) (*pageMetadata, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := &pageMetadata{Meta: make(map[string]string)}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				page.addMeta(n)
			case "title":
				if page.Title == "" && n.FirstChild != nil {
					page.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "script":
				if strings.EqualFold(attr(n, "type"), "application/ld+json") && n.FirstChild != nil {
					page.addJSONLD(n.FirstChild.Data)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return page, nil
}

func (p *pageMetadata) addMeta(n *html.Node) {
	key := attr(n, "property")
	if key == "" {
		key = attr(n, "name")
	}
	content := strings.TrimSpace(attr(n, "content"))
	if key == "" || content == "" {
		return
	}
	if _, exists := p.Meta[key]; !exists {
		p.Meta[key] = content
	}
}

func (p *pageMetadata) addJSONLD(raw string) {
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return
	}
	switch v := data.(type) {
	case map[string]any:
		p.JSONLD = append(p.JSONLD, v)
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				p.JSONLD = append(p.JSONLD, obj)
			}
		}
	}
}

// trackFields reads title, artist and cover art from OpenGraph tags with JSON-LD as a fallback.
func (p *pageMetadata) trackFields() (title, artist, image string) {
	title = p.Meta["og:title"]
	image = p.Meta["og:image"]

	if descArtist, descTitle := splitDescription(p.Meta["og:description"]); descArtist != "" {
		artist = descArtist
		if title == "" {
			title = descTitle
		}
	}

	for _, obj := range p.JSONLD {
		if title == "" {
			if name, ok := obj["name"].(string); ok {
				title = strings.TrimSpace(name)
			}
		}
		if artist == "" {
			artist = jsonLDArtist(obj["byArtist"])
		}
	}

	return title, artist, image
}

func jsonLDArtist(v any) string {
	switch artist := v.(type) {
	case map[string]any:
		name, _ := artist["name"].(string)
		return strings.TrimSpace(name)
	case []any:
		if len(artist) > 0 {
			return jsonLDArtist(artist[0])
		}
	}
	return ""
}

// splitDescription reads "Artist - Title" or "Title by Artist" descriptions.
func splitDescription(desc string) (artist, title string) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "", ""
	}
	if left, right, ok := strings.Cut(desc, " - "); ok {
		return strings.TrimSpace(left), strings.TrimSpace(right)
	}
	if idx := indexFold(desc, " by "); idx >= 0 {
		return strings.TrimSpace(desc[idx+len(" by "):]), strings.TrimSpace(desc[:idx])
	}
	return "", ""
}

// splitTitleText handles the common "Track Title by Artist on Service" page title.
func splitTitleText(titleText, serviceSuffix, separator string) (title, artist string) {
	titleText = strings.TrimSpace(titleText)
	if serviceSuffix != "" {
		titleText = strings.TrimSpace(strings.TrimSuffix(titleText, strings.TrimSpace(serviceSuffix)))
	}

	if separator != "" && strings.Contains(titleText, separator) {
		parts := strings.SplitN(titleText, separator, expectedSplitParts)
		if len(parts) == expectedSplitParts {
			return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		}
	}

	return titleText, ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// indexFold is a case-insensitive strings.Index for ASCII separators.
func indexFold(s, sep string) int {
	for i := 0; i+len(sep) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}

// plusQuery collapses whitespace to "+" and escapes everything else for a query string.
func plusQuery(s string) string {
	return url.QueryEscape(strings.Join(strings.Fields(s), " "))
}

// enrichFromSpotify re-resolves native metadata through Spotify search. Identity fields
// (id, canonical URL, source platform) stay native; a native thumbnail is kept when present.
func enrichFromSpotify(ctx context.Context, catalog SpotifyCatalog, native *TrackMetadata) (*TrackMetadata, bool) {
	if catalog == nil || native.Artist == "" || native.Title == "" {
		return native, false
	}

	match, err := catalog.SearchTrack(ctx, native.Query())
	if err != nil || match == nil {
		return native, false
	}

	enriched := *native
	enriched.Title = match.Title
	enriched.Artist = match.Artist
	if match.Album != "" {
		enriched.Album = match.Album
	}
	if match.ISRC != "" {
		enriched.ISRC = match.ISRC
	}
	if enriched.ThumbnailURL == "" {
		enriched.ThumbnailURL = match.ThumbnailURL
	}
	return &enriched, true
}
