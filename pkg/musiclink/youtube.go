package musiclink

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	// YouTubeDataAPIURL is the YouTube Data API v3 base URL.
	YouTubeDataAPIURL = "https://www.googleapis.com/youtube/v3"
	// youtubeSearchResults is how many search hits are scanned for an official channel.
	youtubeSearchResults = 5
)

// ErrNoAPIKey is returned when a YouTube call is attempted without an API key.
var ErrNoAPIKey = errors.New("youtube api key not configured")

// youtubeTitleNoise matches marketing suffixes stripped from video titles.
var youtubeTitleNoise = func() []*regexp.Regexp {
	patterns := []string{
		`\(Official Video\)`,
		`\(Official Music Video\)`,
		`\(Official Audio\)`,
		`\(Lyric Video\)`,
		`\(Lyrics\)`,
		`\[Official Video\]`,
		`\[Official Music Video\]`,
		`\[Official Audio\]`,
		`\[Lyric Video\]`,
		`\[Lyrics\]`,
		`\(HD\)`,
		`\[HD\]`,
		`\(4K\)`,
		`\[4K\]`,
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+pattern))
	}
	return compiled
}()

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

type youtubeSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
}

// YouTubeClient is a minimal YouTube Data API v3 client keyed by an API key.
type YouTubeClient struct {
	apiKey  string
	baseURL string
	opts    Options
}

// NewYouTubeClient creates a YouTube client. An empty key disables every call.
func NewYouTubeClient(apiKey string, opts Options) *YouTubeClient {
	return &YouTubeClient{apiKey: apiKey, baseURL: YouTubeDataAPIURL, opts: opts.withDefaults()}
}

// HasAPIKey reports whether calls are possible.
func (c *YouTubeClient) HasAPIKey() bool {
	return c.apiKey != ""
}

func (c *YouTubeClient) video(ctx context.Context, id string) (*youtubeSnippet, error) {
	if !c.HasAPIKey() {
		return nil, ErrNoAPIKey
	}
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", id)
	params.Set("key", c.apiKey)

	var resp struct {
		Items []struct {
			Snippet youtubeSnippet `json:"snippet"`
		} `json:"items"`
	}
	if err := getJSON(ctx, c.opts.HTTPClient, c.baseURL+"/videos?"+params.Encode(), "YouTube API", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, errors.New("youtube video not found")
	}
	return &resp.Items[0].Snippet, nil
}

type youtubeSearchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet youtubeSnippet `json:"snippet"`
}

func (c *YouTubeClient) search(ctx context.Context, q string) ([]youtubeSearchItem, error) {
	if !c.HasAPIKey() {
		return nil, ErrNoAPIKey
	}
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", q)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(youtubeSearchResults))
	params.Set("key", c.apiKey)

	var resp struct {
		Items []youtubeSearchItem `json:"items"`
	}
	if err := getJSON(ctx, c.opts.HTTPClient, c.baseURL+"/search?"+params.Encode(), "YouTube API", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// YouTubeExtractor resolves YouTube video ids by parsing the video title and
// matching the result against Spotify.
type YouTubeExtractor struct {
	client  *YouTubeClient
	catalog SpotifyCatalog
	chain   *Chain
}

// NewYouTubeExtractor creates a YouTube extractor.
func NewYouTubeExtractor(client *YouTubeClient, catalog SpotifyCatalog, opts Options) *YouTubeExtractor {
	e := &YouTubeExtractor{client: client, catalog: catalog}
	e.chain = NewChain(PlatformYouTube, opts, Strategy{Name: "data-api", Attempt: e.fromDataAPI})
	return e
}

// Platform returns PlatformYouTube.
func (e *YouTubeExtractor) Platform() Platform {
	return PlatformYouTube
}

// Extract runs the YouTube chain.
func (e *YouTubeExtractor) Extract(ctx context.Context, nativeID string) (*TrackMetadata, error) {
	meta, _, err := e.chain.Run(ctx, nativeID)
	return meta, err
}

func (e *YouTubeExtractor) fromDataAPI(ctx context.Context, id string) (*TrackMetadata, error) {
	snippet, err := e.client.video(ctx, id)
	if err != nil {
		return nil, err
	}

	artist, title := ParseVideoTitle(snippet.Title, snippet.ChannelTitle)
	if artist == "" || title == "" {
		return nil, errors.New("could not derive artist and title from video")
	}

	native := &TrackMetadata{
		ID:             id,
		Title:          title,
		Artist:         artist,
		CanonicalURL:   YouTubeWatchURL(id),
		SourcePlatform: PlatformYouTube,
	}
	// Video titles are too noisy to stand on their own.
	enriched, matched := enrichFromSpotify(ctx, e.catalog, native)
	if !matched {
		return nil, errors.New("no spotify match for video")
	}
	if enriched.ThumbnailURL == "" {
		enriched.ThumbnailURL = "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
	}
	return enriched, nil
}

// ParseVideoTitle splits a video title into artist and title. Separators are
// checked in order: " - " (artist first), " by " (title first, any case),
// ": " (artist first); otherwise the channel name is the artist.
func ParseVideoTitle(videoTitle, channel string) (artist, title string) {
	videoTitle = strings.TrimSpace(videoTitle)

	switch {
	case strings.Contains(videoTitle, " - "):
		artist, title, _ = strings.Cut(videoTitle, " - ")
	case indexFold(videoTitle, " by ") >= 0:
		idx := indexFold(videoTitle, " by ")
		title, artist = videoTitle[:idx], videoTitle[idx+len(" by "):]
	case strings.Contains(videoTitle, ": "):
		artist, title, _ = strings.Cut(videoTitle, ": ")
	default:
		artist, title = channelArtist(channel), videoTitle
	}

	return cleanVideoTitle(artist), cleanVideoTitle(title)
}

// cleanVideoTitle removes common YouTube video metadata from titles.
func cleanVideoTitle(title string) string {
	for _, re := range youtubeTitleNoise {
		title = re.ReplaceAllString(title, "")
	}
	return strings.Join(strings.Fields(title), " ")
}

// channelArtist strips auto-generated channel suffixes ("RickAstleyVEVO", "Queen - Topic").
func channelArtist(channel string) string {
	channel = strings.TrimSpace(channel)
	if trimmed, ok := strings.CutSuffix(channel, " - Topic"); ok {
		return strings.TrimSpace(trimmed)
	}
	if trimmed, ok := strings.CutSuffix(channel, "VEVO"); ok {
		return strings.TrimSpace(camelBoundary.ReplaceAllString(trimmed, "$1 $2"))
	}
	return channel
}

// YouTubeSearcher finds a video for the track and returns paired YouTube and
// YouTube Music links for it.
type YouTubeSearcher struct {
	client *YouTubeClient
}

// NewYouTubeSearcher creates a YouTube searcher.
func NewYouTubeSearcher(client *YouTubeClient) *YouTubeSearcher {
	return &YouTubeSearcher{client: client}
}

// Platform returns PlatformYouTubeMusic.
func (s *YouTubeSearcher) Platform() Platform {
	return PlatformYouTubeMusic
}

// Search returns youtubeMusic and youtube links. Without a key, results or a
// working API both links are search pages.
func (s *YouTubeSearcher) Search(ctx context.Context, query TrackQuery) ([]PlatformLink, error) {
	items, err := s.client.search(ctx, query.Artist+" - "+query.Title+" official audio")
	if err != nil || len(items) == 0 {
		return youtubeSearchLinks(query), nil
	}

	videoID := preferOfficialChannel(items)
	if videoID == "" {
		return youtubeSearchLinks(query), nil
	}
	return []PlatformLink{
		NewTrackLink(PlatformYouTubeMusic, YouTubeMusicWatchURL(videoID), videoID),
		NewTrackLink(PlatformYouTube, YouTubeWatchURL(videoID), videoID),
	}, nil
}

// preferOfficialChannel picks the first Topic or VEVO upload, else the first hit.
func preferOfficialChannel(items []youtubeSearchItem) string {
	for _, item := range items {
		channel := item.Snippet.ChannelTitle
		if item.ID.VideoID != "" && (strings.Contains(channel, "Topic") || strings.Contains(channel, "VEVO")) {
			return item.ID.VideoID
		}
	}
	return items[0].ID.VideoID
}

func youtubeSearchLinks(query TrackQuery) []PlatformLink {
	q := plusQuery(query.Text())
	return []PlatformLink{
		NewSearchLink(PlatformYouTubeMusic, "https://music.youtube.com/search?q="+q),
		NewSearchLink(PlatformYouTube, "https://www.youtube.com/results?search_query="+q),
	}
}

// YouTubeWatchURL returns the watch URL of a video.
func YouTubeWatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// YouTubeMusicWatchURL returns the YouTube Music watch URL of a video.
func YouTubeMusicWatchURL(id string) string {
	return "https://music.youtube.com/watch?v=" + id
}
