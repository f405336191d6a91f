// Package text pulls a shareable music link out of pasted text.
package text

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	urlRegex        = regexp.MustCompile(`https?://\S+`)
	spotifyURIRegex = regexp.MustCompile(`spotify:track:[A-Za-z0-9]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// trackingParams are stripped from extracted links. Apple's "i" and
	// Amazon's "trackAsin" identify the track and are never touched.
	trackingParams = []string{
		"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
		"si", "fbclid", "igshid",
	}
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ExtractLink returns the first link or Spotify URI found in the input. Input
// without any link is returned trimmed and normalized so callers can still try it.
func (p *Parser) ExtractLink(input string) string {
	text := p.normalizeText(input)

	urlLoc := urlRegex.FindStringIndex(text)
	uriLoc := spotifyURIRegex.FindStringIndex(text)

	switch {
	case uriLoc != nil && (urlLoc == nil || uriLoc[0] < urlLoc[0]):
		return text[uriLoc[0]:uriLoc[1]]
	case urlLoc != nil:
		if cleaned := p.cleanURL(text[urlLoc[0]:urlLoc[1]]); cleaned != "" {
			return cleaned
		}
	}
	return text
}

func (p *Parser) normalizeText(text string) string {
	text = norm.NFKC.String(text)
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func (p *Parser) cleanURL(rawURL string) string {
	rawURL = strings.TrimRight(rawURL, ".,!?;")

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}

	if u.RawQuery == "" {
		return u.String()
	}

	q := u.Query()
	for _, param := range trackingParams {
		q.Del(param)
	}
	u.RawQuery = q.Encode()

	return u.String()
}
