package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// DefaultReadHeaderTimeout bounds how long a client may take to send headers.
const DefaultReadHeaderTimeout = 10 * time.Second

// Server represents the admin HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	listener   net.Listener
}

// New creates a new HTTP server.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
		},
		handler: handler,
	}
}

// Listen binds the configured address without serving yet, so callers
// can learn the bound port before Serve.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until Shutdown. It returns nil after a
// graceful shutdown.
func (s *Server) Serve() error {
	if err := s.Listen(); err != nil {
		return err
	}
	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ListenAndServe binds and serves in one call.
func (s *Server) ListenAndServe() error {
	return s.Serve()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
