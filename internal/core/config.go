package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultServerPort is the default HTTP listen port
	DefaultServerPort = 8080
	// DefaultShareBaseURL is the public origin share links are built on
	DefaultShareBaseURL = "https://unitune.art"
	// DefaultPlaylistMaxTracks caps the number of tracks in a stored playlist
	DefaultPlaylistMaxTracks = 500
	// DefaultPlaylistTTLDays is how long a stored playlist lives
	DefaultPlaylistTTLDays = 180
	// DefaultMaxBatchSize caps the number of urls in one batch request
	DefaultMaxBatchSize = 10
	// DefaultBatchConcurrency bounds how many batch entries resolve at once
	DefaultBatchConcurrency = 4
	// DefaultMatchWarnThreshold is the similarity below which a Spotify match is logged as suspicious
	DefaultMatchWarnThreshold = 0.6
	// DefaultTidalCountryCode is the catalog region used for TIDAL lookups
	DefaultTidalCountryCode = "US"
)

type Config struct {
	Spotify  SpotifyConfig
	Tidal    TidalConfig
	YouTube  YouTubeConfig
	Server   ServerConfig
	Log      LogConfig
	Playlist PlaylistConfig
	App      AppConfig
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

type TidalConfig struct {
	ClientID     string
	ClientSecret string
	CountryCode  string
}

// Configured reports whether official TIDAL API calls are possible.
func (c TidalConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type YouTubeConfig struct {
	APIKey string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ShareBaseURL string
}

type LogConfig struct {
	Level  string
	Format string
}

type PlaylistConfig struct {
	DatabasePath string
	MaxTracks    int
	TTLDays      int
}

type AppConfig struct {
	StrategyTimeout    time.Duration
	SearcherTimeout    time.Duration
	MaxBatchSize       int
	BatchConcurrency   int
	MatchWarnThreshold float64
}

func DefaultConfig() *Config {
	return &Config{
		Tidal: TidalConfig{
			CountryCode: DefaultTidalCountryCode,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         DefaultServerPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			ShareBaseURL: DefaultShareBaseURL,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Playlist: PlaylistConfig{
			DatabasePath: "./unitune.db",
			MaxTracks:    DefaultPlaylistMaxTracks,
			TTLDays:      DefaultPlaylistTTLDays,
		},
		App: AppConfig{
			StrategyTimeout:    10 * time.Second,
			SearcherTimeout:    10 * time.Second,
			MaxBatchSize:       DefaultMaxBatchSize,
			BatchConcurrency:   DefaultBatchConcurrency,
			MatchWarnThreshold: DefaultMatchWarnThreshold,
		},
	}
}

// Validate returns an error for unusable configuration and warnings for
// optional integrations that are switched off.
func (c *Config) Validate() (warnings []string, err error) {
	var errs []error

	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		errs = append(errs, errors.New("spotify client id and secret are required"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}
	if c.Playlist.MaxTracks <= 0 {
		errs = append(errs, errors.New("playlist max tracks must be positive"))
	}
	if c.Playlist.TTLDays <= 0 {
		errs = append(errs, errors.New("playlist ttl days must be positive"))
	}
	if c.App.MaxBatchSize <= 0 || c.App.BatchConcurrency <= 0 {
		errs = append(errs, errors.New("batch size and concurrency must be positive"))
	}

	if c.YouTube.APIKey == "" {
		warnings = append(warnings, "YouTube API key not configured: YouTube links cannot be resolved and YouTube results fall back to search pages")
	}
	if !c.Tidal.Configured() {
		warnings = append(warnings, "TIDAL credentials not configured: TIDAL search falls back to search pages")
	}

	return warnings, errors.Join(errs...)
}
