// Package api exposes the platform over HTTP.
package api

import (
	"context"
	"net/http"
	"time"
)

// Server wraps the HTTP server lifecycle around the route handler.
type Server struct {
	handler http.Handler
	server  *http.Server
}

// NewServer builds the server over the given handlers.
func NewServer(h *Handlers) *Server {
	return &Server{handler: setupRoutes(h)}
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       time.Minute, // analysis uploads can be large
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler. Used in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}
