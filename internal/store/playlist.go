// Package store persists shareable playlists in SQLite.
package store

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"unitune/internal/core"
	"unitune/internal/i18n"
)

//go:embed schema.sql
var schema string

const (
	idAttempts       = 5
	idBytes          = 8
	deleteTokenBytes = 24
	// filterCapacity sizes the id filter; it degrades gracefully past it.
	filterCapacity          = 100000
	filterFalsePositiveRate = 0.001
)

var (
	// ErrPlaylistNotFound is returned for unknown playlist ids.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrPlaylistExpired is returned for playlists past their expiry; it wraps ErrPlaylistNotFound.
	ErrPlaylistExpired = fmt.Errorf("playlist expired: %w", ErrPlaylistNotFound)
	// ErrDeleteTokenRequired is returned when Delete is called without a token.
	ErrDeleteTokenRequired = errors.New("delete token required")
	// ErrInvalidDeleteToken is returned when the delete token does not match.
	ErrInvalidDeleteToken = errors.New("invalid delete token")
	// ErrIDExhausted is returned when no unused id was found.
	ErrIDExhausted = errors.New("could not allocate playlist id")
)

// ValidationError reports an invalid create request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(key string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: i18n.Default().T(key, args...)}
}

// Track is one normalized playlist entry.
type Track struct {
	Title        string          `json:"title,omitempty"`
	Artist       string          `json:"artist,omitempty"`
	OriginalURL  string          `json:"originalUrl"`
	ThumbnailURL json.RawMessage `json:"thumbnailUrl,omitempty"`
	AddedAt      json.RawMessage `json:"addedAt,omitempty"`
}

// CreateRequest is the input of Create. Tracks are raw so each entry can be
// validated individually.
type CreateRequest struct {
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Tracks      []json.RawMessage `json:"tracks"`
}

// Created is returned once a playlist is stored.
type Created struct {
	ID          string    `json:"id"`
	DeleteToken string    `json:"deleteToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Playlist is a stored playlist.
type Playlist struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Tracks      []Track    `json:"tracks"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// PlaylistStore is a SQLite backed playlist repository.
type PlaylistStore struct {
	db        *sql.DB
	maxTracks int
	ttl       time.Duration
	ids       *idFilter
	logger    *zap.Logger

	now       func() time.Time
	newID     func() (string, error)
	newSecret func() (string, error)
}

// Open opens (or creates) the database at path.
func Open(ctx context.Context, path string, config *core.PlaylistConfig, logger *zap.Logger) (*PlaylistStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist database: %w", err)
	}

	store, err := New(ctx, db, config, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New initializes the schema on db and loads the id filter.
func New(ctx context.Context, db *sql.DB, config *core.PlaylistConfig, logger *zap.Logger) (*PlaylistStore, error) {
	// WAL lets reads proceed while a playlist is being written.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		return nil, fmt.Errorf("failed to configure playlist database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create playlist schema: %w", err)
	}

	s := &PlaylistStore{
		db:        db,
		maxTracks: config.MaxTracks,
		ttl:       time.Duration(config.TTLDays) * 24 * time.Hour,
		ids:       newIDFilter(filterCapacity, filterFalsePositiveRate),
		logger:    logger,
		now:       time.Now,
		newID:     newPlaylistID,
		newSecret: func() (string, error) { return randomToken(deleteTokenBytes) },
	}
	if err := s.loadIDs(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PlaylistStore) loadIDs(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM playlists")
	if err != nil {
		return fmt.Errorf("failed to load playlist ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan playlist id: %w", err)
		}
		s.ids.Add(id)
	}
	return rows.Err()
}

// Close closes the database.
func (s *PlaylistStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *PlaylistStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Create validates and stores a playlist.
func (s *PlaylistStore) Create(ctx context.Context, req CreateRequest) (*Created, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid(i18n.ErrPlaylistMissingTitle)
	}
	tracks, err := s.normalizeTracks(req.Tracks)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(tracks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tracks: %w", err)
	}
	deleteToken, err := s.newSecret()
	if err != nil {
		return nil, err
	}
	id, err := s.allocateID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO playlists (id, delete_token, title, description, tracks, created_at, updated_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, deleteToken, title, nullString(req.Description), string(payload), now, now, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert playlist: %w", err)
	}
	s.ids.Add(id)

	s.logger.Info("Playlist created",
		zap.String("id", id),
		zap.Int("tracks", len(tracks)),
		zap.Time("expiresAt", expiresAt))
	return &Created{ID: id, DeleteToken: deleteToken, ExpiresAt: expiresAt}, nil
}

func (s *PlaylistStore) normalizeTracks(raw []json.RawMessage) ([]Track, error) {
	if len(raw) == 0 {
		return nil, invalid(i18n.ErrPlaylistTracksRequired)
	}
	if len(raw) > s.maxTracks {
		return nil, invalid(i18n.ErrPlaylistTooManyTracks, s.maxTracks)
	}

	tracks := make([]Track, 0, len(raw))
	for _, entry := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			return nil, invalid(i18n.ErrPlaylistInvalidTrack)
		}

		track := Track{
			Title:        stringField(fields, "title"),
			Artist:       stringField(fields, "artist"),
			OriginalURL:  stringField(fields, "originalUrl"),
			ThumbnailURL: rawField(fields, "thumbnailUrl"),
			AddedAt:      rawField(fields, "addedAt"),
		}
		if track.OriginalURL == "" {
			return nil, invalid(i18n.ErrPlaylistOriginalURL)
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// allocateID draws random ids until one is unused.
func (s *PlaylistStore) allocateID(ctx context.Context) (string, error) {
	for range idAttempts {
		candidate, err := s.newID()
		if err != nil {
			return "", err
		}
		if candidate == "" {
			continue
		}
		if !s.ids.MayContain(candidate) {
			return candidate, nil
		}

		var exists bool
		err = s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM playlists WHERE id = ?)", candidate).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("failed to check playlist id: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrIDExhausted
}

// Get returns a playlist. Expired playlists are deleted on read.
func (s *PlaylistStore) Get(ctx context.Context, id string) (*Playlist, error) {
	var (
		playlist    Playlist
		description sql.NullString
		tracks      string
		expiresAt   sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, tracks, created_at, updated_at, expires_at FROM playlists WHERE id = ?`, id).
		Scan(&playlist.ID, &playlist.Title, &description, &tracks, &playlist.CreatedAt, &playlist.UpdatedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist: %w", err)
	}

	if expiresAt.Valid {
		if expiresAt.Time.Before(s.now()) {
			if _, err := s.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id); err != nil {
				s.logger.Warn("Failed to delete expired playlist", zap.String("id", id), zap.Error(err))
			}
			return nil, ErrPlaylistExpired
		}
		expires := expiresAt.Time.UTC()
		playlist.ExpiresAt = &expires
	}
	if description.Valid {
		playlist.Description = &description.String
	}
	if err := json.Unmarshal([]byte(tracks), &playlist.Tracks); err != nil {
		return nil, fmt.Errorf("failed to decode playlist tracks: %w", err)
	}
	playlist.CreatedAt = playlist.CreatedAt.UTC()
	playlist.UpdatedAt = playlist.UpdatedAt.UTC()
	return &playlist, nil
}

// Delete removes a playlist when token matches its delete token.
func (s *PlaylistStore) Delete(ctx context.Context, id, token string) error {
	if token == "" {
		return ErrDeleteTokenRequired
	}

	var stored string
	err := s.db.QueryRowContext(ctx, "SELECT delete_token FROM playlists WHERE id = ?", id).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlaylistNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return ErrInvalidDeleteToken
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	s.logger.Info("Playlist deleted", zap.String("id", id))
	return nil
}

// PurgeExpired deletes every expired playlist and returns how many were removed.
func (s *PlaylistStore) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM playlists WHERE expires_at IS NOT NULL AND expires_at < ?", s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired playlists: %w", err)
	}
	return result.RowsAffected()
}

// RunJanitor purges expired playlists every interval until ctx is done.
func (s *PlaylistStore) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed, err := s.PurgeExpired(ctx)
			if err != nil {
				s.logger.Warn("Playlist purge failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				s.logger.Info("Purged expired playlists", zap.Int64("removed", removed))
			}
		}
	}
}

// newPlaylistID returns a short alphanumeric id.
func newPlaylistID() (string, error) {
	token, err := randomToken(idBytes)
	if err != nil {
		return "", err
	}
	return strings.NewReplacer("-", "", "_", "").Replace(token), nil
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	// Non-string scalars are kept in their JSON form.
	if string(raw) == "null" {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func rawField(fields map[string]json.RawMessage, key string) json.RawMessage {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	return raw
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
