// Package site serves the decorated documentation over HTTP.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/concrete-docs/internal/logging"
	"github.com/ziadkadry99/concrete-docs/internal/pipeline"
)

// PageRenderer decorates a schema page on request. *pipeline.Builder
// satisfies it.
type PageRenderer interface {
	RenderPage(relPath string, w io.Writer) error
}

// Config holds server configuration.
type Config struct {
	Host string
	Port int
	// Root is the directory served as static files: the built site, or the
	// schema dir in live mode.
	Root            string
	AllowAllOrigins bool
	// Live, when set, decorates .html requests on the fly instead of serving
	// them from Root.
	Live   PageRenderer
	Logger *slog.Logger
}

// Server is the documentation server.
type Server struct {
	cfg        Config
	logger     *slog.Logger
	hub        *Hub
	router     chi.Router
	httpServer *http.Server

	mu      sync.RWMutex
	heading string
	types   []string
}

// New creates a server. The type catalog starts empty; see SetCatalog.
func New(cfg Config) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logging.OrDiscard(cfg.Logger),
		types:  []string{},
	}
	s.hub = NewHub(s.logger)
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
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}
	r.Use(cors.Handler(corsOpts))

	// The reload socket outlives any request timeout.
	r.Get("/livereload", s.hub.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/api/types", s.handleTypes)
		r.Get("/api/manifest", s.handleManifest)

		if s.cfg.Live != nil {
			r.Get("/"+pipeline.StylesheetName, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/css; charset=utf-8")
				_, _ = w.Write(pipeline.Stylesheet())
			})
		}
		r.Handle("/*", s.staticHandler())
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the live reload hub.
func (s *Server) Hub() *Hub { return s.hub }

// SetCatalog replaces the heading and type list reported by /api/types.
func (s *Server) SetCatalog(heading string, types []string) {
	if types == nil {
		types = []string{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heading = heading
	s.types = types
}

// Addr is the host:port the server binds to.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// Callers bind ln, usually to Addr.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutting down server", "error", err)
		}
	}()

	s.logger.Info("serving docs", "addr", ln.Addr().String(), "root", s.cfg.Root, "live", s.cfg.Live != nil)
	if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes reload connections and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

type typesResponse struct {
	Heading string   `json:"heading"`
	Types   []string `json:"types"`
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := typesResponse{Heading: s.heading, Types: s.types}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	m, err := pipeline.ReadManifest(s.cfg.Root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no build manifest"})
	case err != nil:
		s.logger.Error("reading manifest", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "reading manifest failed"})
	default:
		writeJSON(w, http.StatusOK, m)
	}
}

func (s *Server) staticHandler() http.Handler {
	files := http.FileServer(http.Dir(s.cfg.Root))
	if s.cfg.Live == nil {
		return files
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if rel == "" || strings.HasSuffix(r.URL.Path, "/") {
			rel = path.Join(rel, "index.html")
		}
		if path.Ext(rel) != ".html" {
			files.ServeHTTP(w, r)
			return
		}

		var buf bytes.Buffer
		if err := s.cfg.Live.RenderPage(rel, &buf); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				http.NotFound(w, r)
				return
			}
			s.logger.Error("decorating page", "page", rel, "error", err)
			http.Error(w, "decorating page failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		_, _ = w.Write(buf.Bytes())
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
