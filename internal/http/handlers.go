package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"unitune/internal/core"
	"unitune/internal/i18n"
	"unitune/internal/store"
)

// maxBodyBytes bounds request bodies; a full playlist fits well within it.
const maxBodyBytes = 2 << 20

// LinkResolver is the resolution pipeline the handlers call.
type LinkResolver interface {
	Resolve(ctx context.Context, rawURL string) (*core.LinksResponse, error)
	ResolveBatch(ctx context.Context, urls []string) (*core.BatchResponse, error)
	ResolveShareLink(ctx context.Context, encoded string) (*core.LinksResponse, error)
}

// PlaylistRepository stores shareable playlists.
type PlaylistRepository interface {
	Create(ctx context.Context, req store.CreateRequest) (*store.Created, error)
	Get(ctx context.Context, id string) (*store.Playlist, error)
	Delete(ctx context.Context, id, token string) error
	Ping(ctx context.Context) error
}

// HealthInfo is the static part of the /health response.
type HealthInfo struct {
	Version           string
	SpotifyConfigured bool
	YouTubeConfigured bool
	TidalConfigured   bool
	PlaylistStorage   string
}

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

type handlers struct {
	resolver  LinkResolver
	playlists PlaylistRepository
	health    HealthInfo
	recorder  core.Recorder
	messages  *i18n.Localizer
	logger    *zap.Logger
}

func (h *handlers) links(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if strings.TrimSpace(rawURL) == "" {
		h.writeMessage(w, http.StatusBadRequest, i18n.ErrURLMissing)
		return
	}

	resp, err := h.resolver.Resolve(r.Context(), rawURL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type batchRequest struct {
	URLs []string `json:"urls"`
}

func (h *handlers) batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, i18n.ErrBodyInvalidJSON)
		return
	}

	resp, err := h.resolver.ResolveBatch(r.Context(), req.URLs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) share(w http.ResponseWriter, r *http.Request) {
	encoded := r.PathValue("encodedID")
	if encoded == "" {
		h.writeMessage(w, http.StatusBadRequest, i18n.ErrShareInvalid)
		return
	}
	// Legacy share paths carry an escaped URL; keep the escaping for the decoder.
	if raw := r.URL.EscapedPath(); strings.HasPrefix(raw, "/s/") {
		encoded = strings.TrimPrefix(raw, "/s/")
	}

	resp, err := h.resolver.ResolveShareLink(r.Context(), encoded)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var req store.CreateRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.recorder.RecordPlaylistOperation("create", "invalid")
		h.writeMessage(w, http.StatusBadRequest, i18n.ErrBodyInvalidJSON)
		return
	}

	created, err := h.playlists.Create(r.Context(), req)
	if err != nil {
		var validationErr *store.ValidationError
		if errors.As(err, &validationErr) {
			h.recorder.RecordPlaylistOperation("create", "invalid")
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Message, Status: http.StatusBadRequest})
			return
		}
		h.recorder.RecordPlaylistOperation("create", "error")
		h.logger.Error("Failed to create playlist",
			zap.String("requestID", RequestID(r.Context())),
			zap.Error(err))
		h.writeMessage(w, http.StatusInternalServerError, i18n.ErrPlaylistCreateFailed)
		return
	}

	h.recorder.RecordPlaylistOperation("create", "success")
	writeJSON(w, http.StatusCreated, created)
}

func (h *handlers) getPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlists.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writePlaylistError(w, r, "get", err)
		return
	}
	h.recorder.RecordPlaylistOperation("get", "success")
	writeJSON(w, http.StatusOK, playlist)
}

func (h *handlers) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	err := h.playlists.Delete(r.Context(), r.PathValue("id"), r.URL.Query().Get("token"))
	if err != nil {
		h.writePlaylistError(w, r, "delete", err)
		return
	}
	h.recorder.RecordPlaylistOperation("delete", "success")
	writeJSON(w, http.StatusOK, map[string]string{"status": h.messages.T(i18n.StatusPlaylistDeleted)})
}

func (h *handlers) writePlaylistError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, store.ErrPlaylistExpired):
		h.recorder.RecordPlaylistOperation(operation, "expired")
		h.writeMessage(w, http.StatusNotFound, i18n.ErrPlaylistExpired)
	case errors.Is(err, store.ErrPlaylistNotFound):
		h.recorder.RecordPlaylistOperation(operation, "not_found")
		h.writeMessage(w, http.StatusNotFound, i18n.ErrPlaylistNotFound)
	case errors.Is(err, store.ErrDeleteTokenRequired):
		h.recorder.RecordPlaylistOperation(operation, "forbidden")
		h.writeMessage(w, http.StatusForbidden, i18n.ErrPlaylistTokenRequired)
	case errors.Is(err, store.ErrInvalidDeleteToken):
		h.recorder.RecordPlaylistOperation(operation, "forbidden")
		h.writeMessage(w, http.StatusForbidden, i18n.ErrPlaylistInvalidToken)
	default:
		h.recorder.RecordPlaylistOperation(operation, "error")
		h.logger.Error("Playlist operation failed",
			zap.String("operation", operation),
			zap.String("requestID", RequestID(r.Context())),
			zap.Error(err))
		writeInternalError(w)
	}
}

type healthResponse struct {
	Status            string `json:"status"`
	Version           string `json:"version"`
	SpotifyConfigured bool   `json:"spotify_configured"`
	YouTubeConfigured bool   `json:"youtube_configured"`
	TidalConfigured   bool   `json:"tidal_configured"`
	PlaylistStorage   string `json:"playlist_storage"`
}

func (h *handlers) healthCheck(w http.ResponseWriter, r *http.Request) {
	status := i18n.StatusServiceOK
	if h.playlists != nil && h.playlists.Ping(r.Context()) != nil {
		status = i18n.StatusServiceDegraded
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:            h.messages.T(status),
		Version:           h.health.Version,
		SpotifyConfigured: h.health.SpotifyConfigured,
		YouTubeConfigured: h.health.YouTubeConfigured,
		TidalConfigured:   h.health.TidalConfigured,
		PlaylistStorage:   h.health.PlaylistStorage,
	})
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": h.messages.T(i18n.StatusServiceOK), "service": "unitune"})
}

func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	if h.playlists != nil {
		if err := h.playlists.Ping(r.Context()); err != nil {
			h.logger.Warn("Readiness check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": h.messages.T(i18n.StatusServiceDegraded), "service": "unitune"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": h.messages.T(i18n.StatusServiceReady), "service": "unitune"})
}

func (h *handlers) notFound(w http.ResponseWriter, _ *http.Request) {
	h.writeMessage(w, http.StatusNotFound, i18n.ErrEndpointNotFound)
}

// writeError renders a pipeline error. Internal causes are logged, never returned.
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	coreErr := core.AsError(err)
	status := coreErr.StatusCode()
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("requestID", RequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: coreErr.Message, Status: status})
}

func (h *handlers) writeMessage(w http.ResponseWriter, status int, key string, args ...interface{}) {
	writeJSON(w, status, errorResponse{Error: h.messages.T(key, args...), Status: status})
}

func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:  i18n.Default().T(i18n.ErrInternal),
		Status: http.StatusInternalServerError,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already sent; a failed write has no one left to tell.
	_ = json.NewEncoder(w).Encode(body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dest)
}
