// Package server exposes the matching engine over HTTP and a
// WebSocket execution feed.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/tradekit/matchtrade/pkg/core"
	"github.com/tradekit/matchtrade/pkg/logging"
	"github.com/tradekit/matchtrade/pkg/messaging"
)

// Options configures the HTTP server
type Options struct {
	// RateLimit caps requests per second across all clients; zero
	// disables limiting. RateBurst is the token bucket size.
	RateLimit    float64
	RateBurst    int
	AllowOrigins []string
}

// Server routes HTTP requests to the engine and runs the feed hub
type Server struct {
	engine  *core.Engine
	router  *mux.Router
	hub     *Hub
	senders map[string]messaging.EventSender
	limiter *rate.Limiter
	opts    Options
}

// NewServer creates a server around the engine. Named senders become
// selectable sinks for book registration; the "feed" sender backed by
// the WebSocket hub is always available.
func NewServer(engine *core.Engine, senders map[string]messaging.EventSender, opts Options) *Server {
	s := &Server{
		engine:  engine,
		router:  mux.NewRouter(),
		hub:     NewHub(),
		senders: make(map[string]messaging.EventSender),
		opts:    opts,
	}

	for name, sender := range senders {
		s.senders[name] = sender
	}
	s.senders["feed"] = NewFeedSender(s.hub)

	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = int(opts.RateLimit)
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	s.setupRoutes()
	return s
}

// Hub returns the WebSocket hub; the caller runs and stops it
func (s *Server) Hub() *Hub {
	return s.hub
}

// SinkFor resolves a sink name for book registration. Empty or "none"
// yields nil, which the book replaces with its no-op sink.
func (s *Server) SinkFor(symbol, name string) (core.NotificationSink, bool) {
	switch strings.ToLower(name) {
	case "", "none":
		return nil, true
	default:
		sender, ok := s.senders[strings.ToLower(name)]
		if !ok {
			return nil, false
		}
		return messaging.NewSink(symbol, sender), true
	}
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/orders/cancel", s.handleCancelOrder).Methods("POST")
	api.HandleFunc("/depth", s.handleDepth).Methods("GET")
	api.HandleFunc("/books", s.handleListBooks).Methods("GET")
	api.HandleFunc("/books", s.handleCreateBook).Methods("POST")
	api.HandleFunc("/books/{symbol:.+}", s.handleBookDepth).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the full middleware stack
func (s *Server) Handler() http.Handler {
	origins := s.opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	var handler http.Handler = s.router
	handler = s.rateLimitMiddleware(handler)
	handler = logging.Middleware(handler)
	return c.Handler(handler)
}

// Start runs the hub and serves HTTP on addr, blocking until the
// context is canceled or the listener fails.
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.hub.Run()
	defer s.hub.Stop()

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info().Str("addr", addr).Msg("HTTP server started")

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
