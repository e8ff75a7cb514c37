package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Server wraps an *http.Server to provide start/shutdown lifecycle. Run and
// Shutdown may be called from different goroutines in either order.
type Server struct {
	opts Options

	mu         sync.Mutex
	httpServer *http.Server
	closed     bool
}

// Options tunes the underlying http.Server. Zero values fall back to defaults.
type Options struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

const (
	maxHeaderBytes = 1 << 20 // 1 MB

	defaultReadHeaderTimeout = 10 * time.Second
	defaultWriteTimeout      = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultPort              = "8080"
)

func New(opts Options) *Server {
	return &Server{opts: opts}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// newHTTPServer builds a configured *http.Server for the given address and handler.
func (s *Server) newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: orDefault(s.opts.ReadHeaderTimeout, defaultReadHeaderTimeout),
		// Boost toggles wait for two device round trips.
		WriteTimeout: orDefault(s.opts.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:  orDefault(s.opts.IdleTimeout, defaultIdleTimeout),
	}
}

// normalizeAddr accepts "8080" or ":8080"; empty means the default port.
func normalizeAddr(port string) string {
	if port == "" {
		port = defaultPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// Run serves until Shutdown. A clean shutdown returns nil, and so does Run after
// Shutdown has already been called.
func (s *Server) Run(port string, handler http.Handler) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	hs := s.newHTTPServer(normalizeAddr(port), handler)
	s.httpServer = hs
	s.mu.Unlock()

	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
// Called before Run, it makes the later Run return immediately.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	hs := s.httpServer
	s.mu.Unlock()
	if hs == nil {
		return nil
	}
	return hs.Shutdown(ctx)
}
