// Package server exposes layout storage and placement operations over a
// REST API. It is a thin shell: every rule lives in pkg/grid, and the
// server only translates HTTP to engine calls and engine errors to
// status codes.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tbeckers/floatdeck/pkg/grid"
	"github.com/tbeckers/floatdeck/pkg/store"
)

// Server handles layout API requests backed by a layout store.
type Server struct {
	store  store.Store
	logger *log.Logger

	// Serializes read-modify-write cycles on stored layouts. Placement is
	// cheap; a single lock keeps concurrent edits of the same layout from
	// losing updates without per-name bookkeeping.
	mu sync.Mutex

	gridOpts []grid.Option
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Default: log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithGridOptions applies engine options (e.g. a strict-stack validator)
// to every grid the server rebuilds from storage.
func WithGridOptions(opts ...grid.Option) Option {
	return func(s *Server) { s.gridOpts = opts }
}

// New creates a Server on top of the given layout store.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{store: st, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1/layouts", func(r chi.Router) {
		r.Get("/", s.handleListLayouts)
		r.Post("/", s.handleCreateLayout)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetLayout)
			r.Delete("/", s.handleDeleteLayout)

			r.Get("/stats", s.handleStats)
			r.Get("/bom", s.handleBOM)
			r.Get("/connectivity", s.handleConnectivity)
			r.Post("/canplace", s.handleCanPlace)
			r.Get("/nearby", s.handleNearby)
			r.Get("/render.svg", s.handleRenderSVG)
			r.Get("/graph.dot", s.handleGraphDOT)

			r.Route("/modules", func(r chi.Router) {
				r.Post("/", s.handlePlaceModule)
				r.Route("/{id}", func(r chi.Router) {
					r.Delete("/", s.handleRemoveModule)
					r.Post("/move", s.handleMoveModule)
					r.Post("/rotate", s.handleRotateModule)
					r.Post("/recolor", s.handleRecolorModule)
				})
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
