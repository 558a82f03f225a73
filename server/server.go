// Package server exposes the ledger over a small JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rustyeddy/banca/book"
	"github.com/rustyeddy/banca/internal/metrics"
	"github.com/rustyeddy/banca/pkg/id"
	"github.com/rustyeddy/banca/report"
	"go.uber.org/zap"
)

type ctxKey int

const requestIDKey ctxKey = iota

// Server serves the dashboard API for one Book.
type Server struct {
	router   *mux.Router
	server   *http.Server
	book     *book.Book
	renderer *report.Renderer
	metrics  *metrics.Recorder
	log      *zap.Logger

	// Now is the clock used for KPI windows and new operations.
	Now func() time.Time
}

// New builds the router. rec may be nil, in which case /metrics is not
// mounted.
func New(addr string, b *book.Book, r *report.Renderer, rec *metrics.Recorder, log *zap.Logger) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		book:     b,
		renderer: r,
		metrics:  rec,
		log:      log,
		Now:      time.Now,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(jsonContentTypeMiddleware)
	api.HandleFunc("/kpis", s.kpis).Methods(http.MethodGet)
	api.HandleFunc("/operations", s.listOperations).Methods(http.MethodGet)
	api.HandleFunc("/operations", s.createOperation).Methods(http.MethodPost)
	api.HandleFunc("/strategies", s.strategies).Methods(http.MethodGet)
	api.HandleFunc("/risk", s.assess).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(s.notFound)
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("starting http server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = id.New()
		}
		w.Header().Set("X-Request-ID", rid)
		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		rid, _ := r.Context().Value(requestIDKey).(string)
		s.log.Info("request",
			zap.String("request_id", rid),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapper.statusCode),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr))
	})
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// responseWrapper captures the status code for logging.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
