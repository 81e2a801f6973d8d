package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/resinhook/internal/engine/batch"
	"github.com/rshade/resinhook/internal/logging"
	"github.com/rshade/resinhook/internal/mockdata"
	"github.com/rshade/resinhook/internal/store"
)

// maxUploadBytes bounds an import upload.
const maxUploadBytes = 32 << 20

// Options configures a Server.
type Options struct {
	Logger zerolog.Logger
	// Store records download jobs when set.
	Store *store.Store
	// Generator returns a fresh generator per request; nil uses
	// mockdata.NewRandom.
	Generator func() *mockdata.Generator
	// ChunkSize is the export chunk size for downloads.
	ChunkSize int
}

// Server holds the API handlers.
type Server struct {
	log       zerolog.Logger
	store     *store.Store
	generator func() *mockdata.Generator
	chunkSize int
	handler   http.Handler
}

// New builds a Server and its routing table.
func New(opts Options) *Server {
	s := &Server{
		log:       logging.ComponentLogger(opts.Logger, "api"),
		store:     opts.Store,
		generator: opts.Generator,
		chunkSize: opts.ChunkSize,
	}
	if s.generator == nil {
		s.generator = mockdata.NewRandom
	}
	if s.chunkSize <= 0 {
		s.chunkSize = batch.DefaultBatchSize
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/excel/export", s.handleExport)
	mux.HandleFunc("GET /api/excel/download", s.handleDownload)
	mux.HandleFunc("POST /api/excel/import", s.handleImport)
	mux.HandleFunc("GET /api/excel/jobs", s.handleJobs)
	mux.HandleFunc("/", s.handleNotFound)

	var h http.Handler = mux
	h = recoverer(h)
	h = cors(h)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.NewHandler(s.log)(h)
	s.handler = h
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on addr until ctx is done, then shuts down gracefully within
// shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: readTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", addr).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		s.log.Info().Msg("API shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		h.Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
					panic(rec)
				}
				hlog.FromRequest(r).Error().Interface("panic", rec).Msg("handler panicked")
				writeError(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
