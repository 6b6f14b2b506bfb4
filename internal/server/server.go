package server

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Server wraps an *http.Server to provide start/shutdown lifecycle.
type Server struct {
	httpServer *http.Server
}

const (
	maxHeaderBytes    = 1 << 20 // 1 MB
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

// Options tunes the listener. WriteTimeout must exceed the vendor call
// timeout or slow BMS replies are cut off mid-response.
type Options struct {
	WriteTimeout time.Duration
}

// WriteTimeoutFor leaves headroom above the vendor timeout for rendering.
func WriteTimeoutFor(vendorTimeout time.Duration) time.Duration {
	return vendorTimeout + 15*time.Second
}

func newHTTPServer(addr string, handler http.Handler, opts Options) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// normalizeAddr accepts "3001" or ":3001". An empty port is left to callers.
func normalizeAddr(port string) string {
	if port == "" {
		return ""
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// Run blocks serving handler on port until Shutdown is called.
func (s *Server) Run(port string, handler http.Handler, opts Options) error {
	s.httpServer = newHTTPServer(normalizeAddr(port), handler, opts)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
