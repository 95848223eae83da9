// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/config"
)

// Server is the HTTP front of the engine.
type Server struct {
	httpServer *http.Server
	limiter    *RateLimiter
	logger     *zap.Logger
}

// New wires the handler into a mux with request logging and per-IP rate
// limiting and returns a server ready to Start.
func New(cfg *config.Config, handler *Handler, logger *zap.Logger) *Server {
	limiter := NewRateLimiter(cfg.RateLimit, time.Duration(cfg.RateRefillSec)*time.Second)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analyze", handler.Analyze)
	mux.HandleFunc("/api/v1/verdict", handler.Verdict)
	mux.HandleFunc("/api/v1/verdicts", handler.History)
	mux.HandleFunc("/api/v1/verdicts/{id}", handler.VerdictByID)
	mux.HandleFunc("/healthz", handler.Healthz)
	mux.Handle("/metrics", promhttp.Handler())

	chain := RequestLogMiddleware(logger)(RateLimitMiddleware(limiter, mux))

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      chain,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		limiter: limiter,
		logger:  logger,
	}
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.httpServer.Shutdown(ctx)
}
