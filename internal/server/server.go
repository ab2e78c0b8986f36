// Package server exposes the resolved menu over HTTP: JSON for consumers,
// an authenticated upload endpoint for administrators, health, and metrics.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/megamenu/internal/config"
	"git.home.luguber.info/inful/megamenu/internal/logfields"
	"git.home.luguber.info/inful/megamenu/internal/menu"
	"git.home.luguber.info/inful/megamenu/internal/metrics"
)

// MenuService is the slice of the provider the HTTP surface needs. Serve
// mode hands in a swappable wrapper so config reloads take effect without a
// restart.
type MenuService interface {
	GetMenuData(ctx context.Context) menu.MenuData
	Upload(ctx context.Context, data menu.MenuData) bool
}

// Server wraps the HTTP surface of the menu service.
type Server struct {
	httpServer *http.Server
	service    MenuService
	adminToken string
}

// New builds the server. registry may be nil to disable the /metrics route.
func New(cfg config.ServerConfig, svc MenuService, registry *prom.Registry) *Server {
	s := &Server{service: svc, adminToken: cfg.AdminToken}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/menu", s.handleGetMenu)
	mux.HandleFunc("POST /api/menu", s.handleUploadMenu)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(registry))
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           loggingMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the full handler chain, letting tests drive the routes
// without binding a listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks serving HTTP until Shutdown.
func (s *Server) ListenAndServe() error {
	slog.Info("Menu server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleGetMenu serves the resolved menu. The provider contract means this
// handler never reports a retrieval error; at worst it serves the fallback.
func (s *Server) handleGetMenu(w http.ResponseWriter, r *http.Request) {
	data := s.service.GetMenuData(r.Context())
	writeJSON(w, http.StatusOK, data)
}

// handleUploadMenu is the administrative write path. It reports the upload
// outcome in the response body so an administrator sees failures, unlike
// the silent read path.
func (s *Server) handleUploadMenu(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var data menu.MenuData
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&data); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu payload"})
		return
	}
	if err := data.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if ok := s.service.Upload(r.Context(), data); !ok {
		writeJSON(w, http.StatusBadGateway, map[string]any{"success": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authorized checks the bearer token on administrative requests. When no
// admin token is configured the write path is disabled entirely.
func (s *Server) authorized(r *http.Request) bool {
	if s.adminToken == "" {
		return false
	}
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(s.adminToken)) == 1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// loggingMiddleware logs method, path, status, and duration for every request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		slog.Info("HTTP request",
			"method", r.Method,
			logfields.Path(r.URL.Path),
			logfields.Status(wrapped.statusCode),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())),
			"remote_addr", r.RemoteAddr)
	})
}

// responseWriter captures status codes for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
