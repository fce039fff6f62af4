// Package api provides HTTP handlers and the main API server logic for HydraCoach.
//
// It exposes the conversational /chat endpoint, the stateless
// /ai-api/predict-goal endpoint, and the operational /health and /metrics
// endpoints. The API integrates with the dialog and hydration modules.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marufai/HydraCoach/internal/dialog"
	"github.com/marufai/HydraCoach/internal/hydration"
)

// DefaultAddr is the listen address used when no override is supplied.
const DefaultAddr = ":8080"

// DefaultChatTimeout bounds a single dialogue turn, including any calls to
// the chat delegate and the external predictor.
const DefaultChatTimeout = 60 * time.Second

// Opts holds configuration options for the API server.
type Opts struct {
	Addr        string
	ChatTimeout time.Duration
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the listen address for the API server.
func WithAddr(addr string) Option {
	return func(o *Opts) {
		o.Addr = addr
	}
}

// WithChatTimeout sets the per-turn deadline for the /chat endpoint.
func WithChatTimeout(d time.Duration) Option {
	return func(o *Opts) {
		o.ChatTimeout = d
	}
}

// Server hosts the HydraCoach HTTP endpoints.
type Server struct {
	engine      *dialog.Engine
	predict     *hydration.Service
	addr        string
	chatTimeout time.Duration
	httpServer  *http.Server
}

// NewServer creates an API server around the dialogue engine and the
// prediction service.
func NewServer(engine *dialog.Engine, predict *hydration.Service, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ChatTimeout <= 0 {
		cfg.ChatTimeout = DefaultChatTimeout
	}
	return &Server{
		engine:      engine,
		predict:     predict,
		addr:        cfg.Addr,
		chatTimeout: cfg.ChatTimeout,
	}
}

// Handler returns the route table for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.chatHandler)
	mux.HandleFunc("/ai-api/predict-goal", s.predictGoalHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails. On cancellation the server drains in-flight requests
// before returning.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Run: HydraCoach API listening", "addr", s.addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		slog.Info("Server.Run: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
