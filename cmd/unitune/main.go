// Package main provides the UniTune CLI application entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"unitune/internal/core"
	httpserver "unitune/internal/http"
	"unitune/internal/spotify"
	"unitune/internal/store"
	"unitune/pkg/musiclink"
)

const (
	version           = "1.0.0"
	envPrefix         = "UNITUNE"
	defaultServerHost = "0.0.0.0"
	janitorInterval   = time.Hour
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "unitune",
	Short: "UniTune - one track link, every music platform",
	Long: `UniTune resolves a track link from Spotify, TIDAL, Apple Music, YouTube, YouTube Music,
Deezer or Amazon Music into links for the same track on every other platform.`,
	RunE: runUniTune,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := core.DefaultConfig()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "config file (default is .env)")
	flags.String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	flags.String("log-format", defaults.Log.Format, "log format (json, text)")
	flags.String("spotify-client-id", "", "Spotify client ID")
	flags.String("spotify-client-secret", "", "Spotify client secret")
	flags.String("tidal-client-id", "", "TIDAL client ID (optional)")
	flags.String("tidal-client-secret", "", "TIDAL client secret (optional)")
	flags.String("tidal-country-code", defaults.Tidal.CountryCode, "TIDAL catalog country code")
	flags.String("youtube-api-key", "", "YouTube Data API key (optional)")
	flags.String("server-host", defaults.Server.Host, "HTTP server host")
	flags.Int("server-port", defaults.Server.Port, "HTTP server port")
	flags.Duration("server-read-timeout", defaults.Server.ReadTimeout, "HTTP read timeout")
	flags.Duration("server-write-timeout", defaults.Server.WriteTimeout, "HTTP write timeout")
	flags.String("share-base-url", defaults.Server.ShareBaseURL, "Public base URL of share links")
	flags.String("database-path", defaults.Playlist.DatabasePath, "SQLite database file for playlists")
	flags.Int("playlist-max-tracks", defaults.Playlist.MaxTracks, "Maximum tracks per playlist")
	flags.Int("playlist-ttl-days", defaults.Playlist.TTLDays, "Days until a playlist expires")
	flags.Duration("strategy-timeout", defaults.App.StrategyTimeout, "Timeout of a single extraction strategy")
	flags.Duration("searcher-timeout", defaults.App.SearcherTimeout, "Timeout of a single platform search")
	flags.Int("max-batch-size", defaults.App.MaxBatchSize, "Maximum URLs per batch request")
	flags.Int("batch-concurrency", defaults.App.BatchConcurrency, "Batch entries resolved in parallel")
	flags.Float64("match-warn-threshold", defaults.App.MatchWarnThreshold,
		"Similarity below which a Spotify match is logged as suspicious")
	flags.Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

// legacyEnv maps the unprefixed variable names deployments already use.
var legacyEnv = map[string]string{
	"spotify-client-id":     "SPOTIFY_CLIENT_ID",
	"spotify-client-secret": "SPOTIFY_CLIENT_SECRET",
	"tidal-client-id":       "TIDAL_CLIENT_ID",
	"tidal-client-secret":   "TIDAL_CLIENT_SECRET",
	"youtube-api-key":       "YOUTUBE_API_KEY",
	"server-port":           "PORT",
	"database-path":         "DATABASE_URL",
	"playlist-max-tracks":   "PLAYLIST_MAX_TRACKS",
	"playlist-ttl-days":     "PLAYLIST_TTL_DAYS",
	"log-level":             "LOG_LEVEL",
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for key, env := range legacyEnv {
		// The prefixed name is listed first and wins when both are set.
		if err := viper.BindEnv(key, flagToEnvVar(key), env); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to bind %s: %v\n", env, err)
		}
	}

	config = buildConfig()
	logger = buildLogger(config.Log.Level, config.Log.Format)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureSpotify(cfg)
	configureTidal(cfg)
	configureYouTube(cfg)
	configureServer(cfg)
	configurePlaylist(cfg)
	configureApp(cfg)

	return cfg
}

func configureSpotify(cfg *core.Config) {
	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
}

func configureTidal(cfg *core.Config) {
	cfg.Tidal.ClientID = viper.GetString("tidal-client-id")
	cfg.Tidal.ClientSecret = viper.GetString("tidal-client-secret")
	if code := viper.GetString("tidal-country-code"); code != "" {
		cfg.Tidal.CountryCode = strings.ToUpper(code)
	}
}

func configureYouTube(cfg *core.Config) {
	cfg.YouTube.APIKey = viper.GetString("youtube-api-key")
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Server.ReadTimeout = positiveDuration("server-read-timeout", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = positiveDuration("server-write-timeout", cfg.Server.WriteTimeout)
	if base := viper.GetString("share-base-url"); base != "" {
		cfg.Server.ShareBaseURL = strings.TrimRight(base, "/")
	}

	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.Format = viper.GetString("log-format")
}

func configurePlaylist(cfg *core.Config) {
	// DATABASE_URL may carry a sqlite:/// scheme.
	path := viper.GetString("database-path")
	path = strings.TrimPrefix(path, "sqlite:///")
	if path != "" {
		cfg.Playlist.DatabasePath = path
	}
	cfg.Playlist.MaxTracks = viper.GetInt("playlist-max-tracks")
	cfg.Playlist.TTLDays = viper.GetInt("playlist-ttl-days")
}

func configureApp(cfg *core.Config) {
	cfg.App.StrategyTimeout = positiveDuration("strategy-timeout", cfg.App.StrategyTimeout)
	cfg.App.SearcherTimeout = positiveDuration("searcher-timeout", cfg.App.SearcherTimeout)
	cfg.App.MaxBatchSize = viper.GetInt("max-batch-size")
	cfg.App.BatchConcurrency = viper.GetInt("batch-concurrency")

	threshold := viper.GetFloat64("match-warn-threshold")
	if threshold < 0 || threshold > 1 {
		fmt.Fprintf(os.Stderr, "Warning: Invalid match warn threshold (%.2f), using default (%.2f)\n",
			threshold, core.DefaultMatchWarnThreshold)
		threshold = core.DefaultMatchWarnThreshold
	}
	cfg.App.MatchWarnThreshold = threshold
}

func positiveDuration(key string, fallback time.Duration) time.Duration {
	d := viper.GetDuration(key)
	if d <= 0 {
		fmt.Printf("Warning: Invalid %s (%s), using default (%s)\n", key, d, fallback)
		return fallback
	}
	return d
}

func buildLogger(level, format string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	if strings.EqualFold(format, "text") {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runUniTune(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting UniTune",
		zap.String("version", version),
		zap.Bool("tidal_configured", config.Tidal.Configured()),
		zap.Bool("youtube_configured", config.YouTube.APIKey != ""),
		zap.String("share_base_url", config.Server.ShareBaseURL))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	svcs, err := initializeServices(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := svcs.playlists.Close(); closeErr != nil {
			logger.Debug("Failed to close playlist store", zap.Error(closeErr))
		}
	}()

	return runServices(ctx, svcs)
}

func validateConfig() error {
	warnings, err := config.Validate()
	for _, warning := range warnings {
		logger.Warn(warning)
	}
	return err
}

type services struct {
	spotify    *spotify.Client
	resolver   *core.Resolver
	playlists  *store.PlaylistStore
	metrics    *httpserver.Metrics
	httpServer *httpserver.Server
}

func initializeServices(ctx context.Context) (*services, error) {
	spotifyClient := spotify.NewClient(&config.Spotify, logger.Named("spotify"))
	if err := spotifyClient.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Spotify: %w", err)
	}

	metrics := httpserver.NewMetrics()
	resolver := buildResolver(spotifyClient, metrics)

	playlists, err := store.Open(ctx, config.Playlist.DatabasePath, &config.Playlist, logger.Named("store"))
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist store: %w", err)
	}

	httpServer := httpserver.NewServer(&config.Server, httpserver.Dependencies{
		Resolver:  resolver,
		Playlists: playlists,
		Metrics:   metrics,
		Health: httpserver.HealthInfo{
			Version:           version,
			SpotifyConfigured: true,
			YouTubeConfigured: config.YouTube.APIKey != "",
			TidalConfigured:   config.Tidal.Configured(),
			PlaylistStorage:   "sqlite",
		},
	}, logger.Named("http"))

	return &services{
		spotify:    spotifyClient,
		resolver:   resolver,
		playlists:  playlists,
		metrics:    metrics,
		httpServer: httpServer,
	}, nil
}

// buildResolver wires one extractor per source platform and one searcher per
// target platform around the Spotify catalog.
func buildResolver(catalog musiclink.SpotifyCatalog, metrics *httpserver.Metrics) *core.Resolver {
	opts := musiclink.Options{
		StrategyTimeout: config.App.StrategyTimeout,
		Logger:          logger.Named("musiclink"),
		Observer:        metrics,
	}

	// Without credentials the TIDAL client still serves the public endpoints.
	tidal := musiclink.NewTidalClient(config.Tidal.ClientID, config.Tidal.ClientSecret, config.Tidal.CountryCode, nil)
	youtube := musiclink.NewYouTubeClient(config.YouTube.APIKey, opts)

	pipeline := core.Pipeline{
		Recognizer: musiclink.NewRecognizer(),
		Extractors: []musiclink.Extractor{
			musiclink.NewSpotifyExtractor(catalog, opts),
			musiclink.NewTidalExtractor(tidal, catalog, opts),
			musiclink.NewAppleMusicExtractor(catalog, opts),
			musiclink.NewYouTubeExtractor(youtube, catalog, opts),
			musiclink.NewDeezerExtractor(catalog, opts),
			musiclink.NewAmazonMusicExtractor(catalog, opts),
		},
		Reconciler: core.NewReconciler(catalog, config.App.StrategyTimeout, metrics, config.App.MatchWarnThreshold, logger.Named("reconciler")),
		Aggregator: core.NewAggregator([]musiclink.Searcher{
			musiclink.NewTidalSearcher(tidal, opts),
			musiclink.NewAppleMusicSearcher(),
			musiclink.NewYouTubeSearcher(youtube),
			musiclink.NewDeezerSearcher(opts),
			musiclink.NewAmazonMusicSearcher(),
		}, config.App.SearcherTimeout, metrics, logger.Named("aggregator")),
	}

	return core.NewResolver(pipeline, &config.App, config.Server.ShareBaseURL, metrics, logger.Named("resolver"))
}

func runServices(ctx context.Context, svcs *services) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svcs.httpServer.Start(gCtx)
	})

	g.Go(func() error {
		return svcs.playlists.RunJanitor(gCtx, janitorInterval)
	})

	logger.Info("UniTune started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)),
		zap.String("database", config.Playlist.DatabasePath))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("UniTune stopped with error", zap.Error(err))
		return err
	}

	logger.Info("UniTune stopped gracefully")
	return nil
}
