package musiclink

import (
	"context"

	"go.uber.org/zap"
)

// TidalSearcher finds TIDAL tracks through the official search API when
// credentials are configured and falls back to the TIDAL search page.
type TidalSearcher struct {
	client *TidalClient
	opts   Options
}

// NewTidalSearcher creates a TIDAL searcher.
func NewTidalSearcher(client *TidalClient, opts Options) *TidalSearcher {
	return &TidalSearcher{client: client, opts: opts.withDefaults()}
}

// Platform returns PlatformTidal.
func (s *TidalSearcher) Platform() Platform {
	return PlatformTidal
}

// Search returns a verified TIDAL link or a search fallback.
func (s *TidalSearcher) Search(ctx context.Context, query TrackQuery) ([]PlatformLink, error) {
	if s.client != nil && s.client.HasCredentials() {
		for _, q := range []string{query.ISRC, query.Text()} {
			if q == "" {
				continue
			}
			id, err := s.client.SearchTrackID(ctx, q)
			if err != nil {
				s.opts.Logger.Debug("TIDAL search failed", zap.String("query", q), zap.Error(err))
				continue
			}
			if id != "" {
				return []PlatformLink{NewTrackLink(PlatformTidal, TidalTrackURL(id), id)}, nil
			}
		}
	}

	return []PlatformLink{
		NewSearchLink(PlatformTidal, "https://listen.tidal.com/search?q="+plusQuery(query.Text())),
	}, nil
}
