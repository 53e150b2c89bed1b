package http

import (
	"bufio"
	"context"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"

	"priceparty/internal/app"
	"priceparty/internal/config"
	"priceparty/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	session *app.GameSession
	config  *config.Config
	logger  *slog.Logger
	webFS   fs.FS
}

// NewServer creates a new HTTP server serving web assets from webFS
func NewServer(cfg *config.Config, session *app.GameSession, logger *slog.Logger, webFS fs.FS) *Server {
	s := &Server{
		session: session,
		config:  cfg,
		logger:  logger,
		webFS:   webFS,
	}

	// Set up routes
	mux := http.NewServeMux()
	s.setupRoutes(mux)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.middleware(corsHandler.Handler(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Host control API
	mux.HandleFunc("POST /api/start", s.handleStart)
	mux.HandleFunc("POST /api/next", s.handleNext)
	mux.HandleFunc("POST /api/reset", s.handleReset)

	// State query and diagnostics
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	// WebSocket
	wsHandler := ws.NewHandler(s.session, s.logger)
	mux.Handle("GET /ws", wsHandler)

	// Static files, participant page and host console
	mux.HandleFunc("GET /static/", s.handleStatic)
	mux.HandleFunc("GET /host", s.handleHostPage)
	mux.HandleFunc("GET /", s.handleIndex)
}

// middleware wraps the handler with request logging
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// Log request (skip static files in production)
		if s.config.IsDevelopment() || !isStaticRequest(r.URL.Path) {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration", time.Since(start),
			)
		}
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// isStaticRequest checks if the request is for a static file
func isStaticRequest(path string) bool {
	return len(path) > 8 && path[:8] == "/static/"
}
