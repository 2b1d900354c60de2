// Package server exposes the generators over HTTP and a websocket line
// protocol.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/hexforge/internal/config"
	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/database"
	"github.com/lawnchairsociety/hexforge/internal/help"
	"github.com/lawnchairsociety/hexforge/internal/logger"
	"github.com/lawnchairsociety/hexforge/internal/overlay"
)

// HexStore persists generated overland hexes. *database.Database
// implements it.
type HexStore interface {
	SaveHex(code, runID string, rec content.Record) error
	SaveHexes(runID string, hexes map[string]content.Record) error
	LoadHex(code string) (database.StoredHex, bool, error)
}

type Server struct {
	cfg          *config.Config
	gen          *overlay.Generator
	hexes        HexStore
	help         *help.Help
	sessions     *SessionLimiter
	logins       *LoginGuard
	upgrader     websocket.Upgrader
	router       *mux.Router
	httpServer   *http.Server
	StartTime    time.Time
	mu           sync.Mutex
	clients      map[Client]struct{}
	shutdownOnce sync.Once
}

// New creates a server. hexes may be nil, in which case generated hexes
// are not persisted.
func New(cfg *config.Config, gen *overlay.Generator, hexes HexStore) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		cfg:       cfg,
		gen:       gen,
		hexes:     hexes,
		help:      loadHelp(cfg.Data.HelpFile),
		sessions:  NewSessionLimiter(cfg.Connections),
		logins:    NewLoginGuard(cfg.RateLimit),
		StartTime: time.Now(),
		clients:   make(map[Client]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}
	s.router = s.routes()
	return s
}

// loadHelp reads the session help file, falling back to the built-in text.
func loadHelp(path string) *help.Help {
	if path == "" {
		return help.Default()
	}
	h, err := help.Load(path)
	if err != nil {
		logger.Warning("Failed to load help file, using built-in help", "path", path, "error", err)
		return help.Default()
	}
	return h
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.logRequests)
	api.HandleFunc("/cities", s.handleCities).Methods(http.MethodGet)
	api.HandleFunc("/overlays/{city}", s.handleOverlay).Methods(http.MethodGet)
	api.HandleFunc("/hexes/{code}", s.handleHex).Methods(http.MethodGet)
	api.HandleFunc("/hexes/{code}/stored", s.handleStoredHex).Methods(http.MethodGet)
	api.HandleFunc("/map", s.handleMap).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.requireAdmin)
	admin.HandleFunc("/invalidate", s.handleInvalidate).Methods(http.MethodPost)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:         s.cfg.HTTP.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	logger.Info("Server listening", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and closes
// websocket sessions. Only the first call does anything.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		srv := s.httpServer
		s.mu.Unlock()
		if srv != nil {
			err = srv.Shutdown(ctx)
		}

		s.logins.Stop()

		// Hijacked websocket connections are not tracked by http.Server
		s.mu.Lock()
		for client := range s.clients {
			client.Close()
		}
		s.mu.Unlock()

		logger.Info("Server shutdown complete", "uptime", time.Since(s.StartTime).Round(time.Second))
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"uptime":   time.Since(s.StartTime).Round(time.Second).String(),
		"sessions": s.sessions.Stats(),
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"client_ip", clientIP(r),
			"duration", time.Since(start))
	})
}
