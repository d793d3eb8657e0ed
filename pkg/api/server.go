// Package api serves the render pipeline over HTTP.
//
// Routes:
//
//	POST /v1/render          render a cloud; the body is a pipeline.Options
//	                         document, ?format= picks the returned artifact
//	GET  /v1/renders         recent render records
//	GET  /v1/renders/{id}    one render record
//	GET  /v1/palettes        named palettes
//	GET  /v1/fonts           available typefaces
//	GET  /healthz            liveness
//
// Every render response carries an X-Render-ID header naming its record.
package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/store"
)

const shutdownTimeout = 10 * time.Second

// Server handles API requests.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	cfg    Config
	logger *log.Logger
}

// New creates a server around an existing runner and store.
func New(runner *pipeline.Runner, st store.Store, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = 8 << 20
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = time.Minute
	}
	return &Server{runner: runner, store: st, cfg: cfg, logger: logger}
}

// Open wires the backends named by cfg: redis when RedisURL is set (else an
// in-memory cache) and MongoDB when MongoURI is set (else an in-memory
// store).
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Server, error) {
	var c cache.Cache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, "wordcloud:")
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		c = rc
		logger.Info("using redis cache")
	} else {
		c = cache.NewMemoryCache(cfg.CacheEntries)
	}

	var st store.Store
	if cfg.MongoURI != "" {
		ms, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		st = ms
		logger.Info("using mongo store", "database", cfg.MongoDatabase)
	} else {
		st = store.NewMemoryStore()
	}

	var keyer cache.Keyer
	if cfg.CacheScope != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.CacheScope+":")
	}
	return New(pipeline.NewRunner(c, keyer, logger), st, cfg, logger), nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Get("/renders", s.handleListRenders)
		r.Get("/renders/{id}", s.handleGetRender)
		r.Get("/palettes", s.handlePalettes)
		r.Get("/fonts", s.handleFonts)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.RenderTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the runner's cache and the store.
func (s *Server) Close(ctx context.Context) error {
	return stderrors.Join(s.runner.Close(), s.store.Close(ctx))
}
