package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mrryf/thesisweb/internal/site"
)

// ReloadPath is where pages connect for live reload.
const ReloadPath = "/ws/reload"

// Config holds server configuration.
type Config struct {
	Port     int
	SiteDir  string // directory containing the generated site
	AllowAll bool   // allow all CORS origins (dev mode)
}

// Server previews the generated site and answers read-only lookups over it.
type Server struct {
	cfg        Config
	index      *site.Index
	hub        *Hub
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over index. The index may be updated while the
// server runs.
func New(cfg Config, index *site.Index) *Server {
	s := &Server{
		cfg:   cfg,
		index: index,
		hub:   NewHub(),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Get("/search", s.handleSearch)
		r.Get("/glossary", s.handleGlossary)
		r.Get("/glossary/{term}", s.handleTerm)
		r.Get("/citations", s.handleCitation)
	})

	r.Get(ReloadPath, s.hub.ServeHTTP)

	if s.cfg.SiteDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.SiteDir)))
	}
	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the live reload hub.
func (s *Server) Hub() *Hub { return s.hub }

// Index returns the lookup index.
func (s *Server) Index() *site.Index { return s.index }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("thesisweb preview listening on http://localhost%s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown closes live reload connections and gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
