// Package server exposes the document Q&A application over HTTP and a
// websocket.
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
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docqa/internal/app"
	"github.com/ziadkadry99/docqa/internal/config"
	"github.com/ziadkadry99/docqa/internal/history"
	"github.com/ziadkadry99/docqa/internal/jobs"
	"github.com/ziadkadry99/docqa/internal/qa"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

// App is the application state the server serves. *app.App implements it.
type App interface {
	Config() *config.Config
	ProcessDocuments(ctx context.Context, paths []string, progress vectordb.ProgressFunc) (*app.ProcessResult, error)
	AskQuestion(ctx context.Context, question string, k int) qa.Result
	Search(ctx context.Context, query string, k int) ([]vectordb.SearchResult, error)
	Processed() bool
	DocumentStats() app.DocumentStats
	IndexStats() vectordb.Stats
	SaveIndex() error
	LoadIndex() (vectordb.LoadResult, error)
	History(ctx context.Context) ([]history.Turn, error)
	ClearHistory(ctx context.Context) (int64, error)
	Summary(ctx context.Context) (string, error)
}

// Config holds server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	UploadDir   string // parent for uploaded files; empty uses the system temp dir
	// DocumentRoot is the only tree path ingestion may read. Empty disables
	// path ingestion; uploads are unaffected.
	DocumentRoot string
}

// Server is the docqa HTTP API.
type Server struct {
	cfg        Config
	app        App
	jobs       *jobs.Manager
	router     chi.Router
	httpServer *http.Server
	upgrader   websocket.Upgrader
	origins    []string
}

// New creates a server for a. Background work runs on jm.
func New(cfg Config, a App, jm *jobs.Manager) *Server {
	s := &Server{cfg: cfg, app: a, jobs: jm}
	s.origins = cfg.CORSOrigins
	if len(s.origins) == 0 {
		s.origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
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

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		// The websocket outlives any request timeout.
		r.Get("/ws/ask", s.handleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(120 * time.Second))
			s.registerRoutes(r)
		})
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("docqa server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"processed": s.app.Processed(),
	})
}
