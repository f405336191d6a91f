// Package fuzzy normalizes track fields and scores how closely two tracks match.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/unicode/norm"
)

var (
	featRegex       = regexp.MustCompile(`(?i)\s*[\(\[]?\s*\b(?:feat|ft|featuring)\b\.?\s+[^\)\]]*[\)\]]?\s*`)
	versionRegex    = regexp.MustCompile(`(?i)\s*[\(\[]\s*[^\)\]]*(?:remaster|remastered|deluxe|extended|radio edit|clean|explicit|mono|stereo)[^\)\]]*[\)\]]\s*`)
	dashVersion     = regexp.MustCompile(`(?i)\s+-\s+(?:\d{4}\s+)?(?:remaster|remastered|radio edit|single version|mono|stereo).*$`)
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s&]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Normalizer canonicalizes artist and title strings before comparison.
type Normalizer struct {
	metric strutil.StringMetric
}

func NewNormalizer() *Normalizer {
	return &Normalizer{metric: metrics.NewJaroWinkler()}
}

func (n *Normalizer) NormalizeArtist(artist string) string {
	artist = n.basicNormalize(artist)

	artist = strings.ReplaceAll(artist, " and ", " & ")
	artist = strings.TrimPrefix(artist, "the ")

	return artist
}

// NormalizeTitle drops featured artists and version markers ("Remastered 2009", "Radio Edit").
func (n *Normalizer) NormalizeTitle(title string) string {
	title = featRegex.ReplaceAllString(title, " ")
	title = versionRegex.ReplaceAllString(title, " ")
	title = dashVersion.ReplaceAllString(title, "")

	return n.basicNormalize(title)
}

func (n *Normalizer) basicNormalize(text string) string {
	text = norm.NFKD.String(text)

	var result strings.Builder
	for _, r := range text {
		if !unicode.IsMark(r) {
			result.WriteRune(r)
		}
	}
	text = result.String()

	text = punctRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")

	text = strings.ToLower(text)
	text = strings.TrimSpace(text)

	return text
}

// CalculateSimilarity returns the Jaro-Winkler similarity of two strings in [0, 1].
func (n *Normalizer) CalculateSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	if s1 == "" || s2 == "" {
		return 0.0
	}

	return strutil.Similarity(s1, s2, n.metric)
}

// TrackSimilarity scores two (artist, title) pairs after normalization. Title
// weighs more than artist since artist credits vary most between catalogs.
func (n *Normalizer) TrackSimilarity(artistA, titleA, artistB, titleB string) float64 {
	const titleWeight = 0.6

	title := n.CalculateSimilarity(n.NormalizeTitle(titleA), n.NormalizeTitle(titleB))
	artist := n.CalculateSimilarity(n.NormalizeArtist(artistA), n.NormalizeArtist(artistB))

	return titleWeight*title + (1-titleWeight)*artist
}
