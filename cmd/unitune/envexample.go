package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("✅ Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# UniTune Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	content.WriteString("# Format: UNITUNE_<SECTION>_<SETTING>=value\n")
	content.WriteString("# CLI equivalent: --<section>-<setting>\n")
	content.WriteString("#\n")
	content.WriteString("# The unprefixed names SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET, TIDAL_CLIENT_ID,\n")
	content.WriteString("# TIDAL_CLIENT_SECRET, YOUTUBE_API_KEY, PORT, DATABASE_URL, PLAYLIST_MAX_TRACKS,\n")
	content.WriteString("# PLAYLIST_TTL_DAYS and LOG_LEVEL are read as well.\n")
	content.WriteString("# =============================================================================\n\n")

	generateSpotifySection(&content)
	generatePlatformsSection(&content, cmd)
	generateServerSection(&content, cmd)
	generatePlaylistSection(&content, cmd)
	generateResolutionSection(&content, cmd)
	generateLoggingSection(&content, cmd)

	return content.String()
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}

func sectionHeader(content *strings.Builder, title string, flags ...string) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	fmt.Fprintf(content, "# %s\n", title)
	content.WriteString("# -----------------------------------------------------------------------------\n")
	if len(flags) > 0 {
		fmt.Fprintf(content, "# CLI: --%s\n", strings.Join(flags, ", --"))
	}
}

// writeDefault emits a setting with its flag default as the value.
func writeDefault(content *strings.Builder, cmd *cobra.Command, flag, comment string) {
	value := getDefaultValueString(cmd, flag)
	fmt.Fprintf(content, "%s=%s    # %s (default: %s)\n", flagToEnvVar(flag), value, comment, value)
}

func generateSpotifySection(content *strings.Builder) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# SPOTIFY CONFIGURATION - Required\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("# Get these from https://developer.spotify.com/dashboard\n")
	content.WriteString("# CLI: --spotify-client-id, --spotify-client-secret\n")
	content.WriteString("\n")

	fmt.Fprintf(content, "%s=your_spotify_client_id_here          # Spotify app client ID\n",
		flagToEnvVar("spotify-client-id"))
	fmt.Fprintf(content, "%s=your_spotify_client_secret_here  # Spotify app client secret\n",
		flagToEnvVar("spotify-client-secret"))
	content.WriteString("\n")
}

func generatePlatformsSection(content *strings.Builder, cmd *cobra.Command) {
	sectionHeader(content, "Optional Platform Credentials",
		"tidal-client-id", "tidal-client-secret", "tidal-country-code", "youtube-api-key")

	content.WriteString("# Without TIDAL credentials TIDAL results are search pages\n")
	fmt.Fprintf(content, "%s=                  # https://developer.tidal.com\n", flagToEnvVar("tidal-client-id"))
	fmt.Fprintf(content, "%s=\n", flagToEnvVar("tidal-client-secret"))
	writeDefault(content, cmd, "tidal-country-code", "Catalog region")
	content.WriteString("# Without a YouTube key YouTube links cannot be resolved\n")
	fmt.Fprintf(content, "%s=                  # YouTube Data API v3 key\n", flagToEnvVar("youtube-api-key"))
	content.WriteString("\n")
}

func generateServerSection(content *strings.Builder, cmd *cobra.Command) {
	sectionHeader(content, "HTTP Server Configuration",
		"server-host", "server-port", "server-read-timeout", "server-write-timeout", "share-base-url")

	writeDefault(content, cmd, "server-host", "Server bind address")
	writeDefault(content, cmd, "server-port", "Server port")
	writeDefault(content, cmd, "server-read-timeout", "Request read timeout")
	writeDefault(content, cmd, "server-write-timeout", "Response write timeout")
	writeDefault(content, cmd, "share-base-url", "Public origin of share links")
	content.WriteString("\n")
}

func generatePlaylistSection(content *strings.Builder, cmd *cobra.Command) {
	sectionHeader(content, "Shared Playlists",
		"database-path", "playlist-max-tracks", "playlist-ttl-days")

	writeDefault(content, cmd, "database-path", "SQLite database file")
	writeDefault(content, cmd, "playlist-max-tracks", "Tracks allowed per playlist")
	writeDefault(content, cmd, "playlist-ttl-days", "Days until a playlist expires")
	content.WriteString("\n")
}

func generateResolutionSection(content *strings.Builder, cmd *cobra.Command) {
	sectionHeader(content, "Resolution Tuning",
		"strategy-timeout", "searcher-timeout", "max-batch-size", "batch-concurrency", "match-warn-threshold")

	writeDefault(content, cmd, "strategy-timeout", "Timeout per extraction strategy")
	writeDefault(content, cmd, "searcher-timeout", "Timeout per platform search")
	writeDefault(content, cmd, "max-batch-size", "URLs per batch request")
	writeDefault(content, cmd, "batch-concurrency", "Batch entries resolved in parallel")
	writeDefault(content, cmd, "match-warn-threshold", "Log Spotify matches below this similarity")
	content.WriteString("\n")
}

func generateLoggingSection(content *strings.Builder, cmd *cobra.Command) {
	sectionHeader(content, "Logging Configuration", "log-level", "log-format")

	writeDefault(content, cmd, "log-level", "Log level: debug, info, warn, error")
	writeDefault(content, cmd, "log-format", "Log format: json, text")
	content.WriteString("\n")
}
