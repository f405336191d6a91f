// Package http exposes the resolver and playlist store over HTTP.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"unitune/internal/core"
	"unitune/internal/i18n"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	config *core.ServerConfig
	logger *zap.Logger
	server *http.Server
}

// Dependencies are the services behind the routes. Playlists may be nil.
type Dependencies struct {
	Resolver  LinkResolver
	Playlists PlaylistRepository
	Metrics   *Metrics
	Health    HealthInfo
}

func NewServer(config *core.ServerConfig, deps Dependencies, logger *zap.Logger) *Server {
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}

	mux := setupRoutes(deps, logger)
	handler := chain(mux,
		withRequestID,
		withRecovery(logger),
		withAccessLog(logger),
		withCORS,
	)

	return &Server{
		config: config,
		logger: logger,
		server: createHTTPServer(config, handler),
	}
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func setupRoutes(deps Dependencies, logger *zap.Logger) *http.ServeMux {
	h := &handlers{
		resolver:  deps.Resolver,
		playlists: deps.Playlists,
		health:    deps.Health,
		recorder:  deps.Metrics,
		messages:  i18n.Default(),
		logger:    logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1-alpha.1/links", h.links)
	mux.HandleFunc("POST /v1-alpha.1/batch", h.batch)
	mux.HandleFunc("GET /s/{encodedID...}", h.share)

	if deps.Playlists != nil {
		mux.HandleFunc("POST /v1/playlists", h.createPlaylist)
		mux.HandleFunc("GET /v1/playlists/{id}", h.getPlaylist)
		mux.HandleFunc("DELETE /v1/playlists/{id}", h.deletePlaylist)
	}

	mux.HandleFunc("GET /health", h.healthCheck)
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /readyz", h.readyz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(indexPage))
	})
	mux.HandleFunc("/", h.notFound)

	return mux
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
    <title>UniTune</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
        code { background: #f4f4f4; padding: 2px 4px; }
    </style>
</head>
<body>
    <h1 class="header">🎵 UniTune</h1>
    <p>Cross-platform music link resolver</p>

    <h2>Endpoints</h2>
    <div class="endpoint"><code>GET /v1-alpha.1/links?url=...</code> - Resolve a track link</div>
    <div class="endpoint"><code>POST /v1-alpha.1/batch</code> - Resolve up to 10 links</div>
    <div class="endpoint"><code>GET /s/{id}</code> - Resolve a share link</div>
    <div class="endpoint"><code>POST /v1/playlists</code> - Create a shareable playlist</div>
    <div class="endpoint">📊 <a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint">💚 <a href="/health">Health</a> - Service status</div>
    <div class="endpoint">✅ <a href="/readyz">Ready</a> - Readiness check</div>
</body>
</html>`
