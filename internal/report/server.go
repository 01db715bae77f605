package report

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/poorstock/stockreport/internal/analyzer"
)

// Server exposes the current status report over HTTP. Each request rebuilds
// the report from the inputs on disk, so responses always reflect the latest
// snapshot.
type Server struct {
	logger   *zap.Logger
	analyzer *analyzer.Analyzer
}

func NewServer(logger *zap.Logger, a *analyzer.Analyzer) *Server {
	return &Server{
		logger:   logger,
		analyzer: a,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)

	r.Route("/api/v1/report", func(r chi.Router) {
		r.Get("/", s.getReport)
		r.Get("/breakdown", s.getBreakdown)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("request",
				zap.String("from", r.RemoteAddr),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.analyzer.Run()
	if err != nil {
		s.logger.Error("report build failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(NewDocument(rep))
}

func (s *Server) getBreakdown(w http.ResponseWriter, r *http.Request) {
	rep, err := s.analyzer.Run()
	if err != nil {
		s.logger.Error("report build failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(NewDocument(rep).Breakdown)
}

func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}

	s.logger.Info("starting report server", zap.String("addr", addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down report server")
		srv.Shutdown(context.Background())
	}()

	return srv.ListenAndServe()
}
