// Package server implements the WebSocket broadcast server using Echo.
//
// One accept path (the upgrade handler), one read-liveness goroutine per
// viewer, and arbitrarily many callers invoking Log. Shared state sits
// behind a single RWMutex plus the registry's own lock; neither is held
// across network I/O.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/binhonglee/slogx/internal/metrics"
	"github.com/binhonglee/slogx/internal/record"
	"github.com/binhonglee/slogx/internal/registry"
	"github.com/binhonglee/slogx/internal/stack"
	"github.com/binhonglee/slogx/internal/structured"
)

// startupGrace gives the accept loop a moment to come up before Start
// returns. Callers must still tolerate a window where IsInitialized is true
// but no viewer has completed its handshake.
const startupGrace = 50 * time.Millisecond

// Server accepts viewer connections and fans log records out to them.
// It runs for the life of the process once started.
type Server struct {
	mu          sync.RWMutex
	serviceName string
	starting    bool
	initialized bool

	registry *registry.Registry
	builder  *record.Builder
	clock    clockwork.Clock
	echo     *echo.Echo
	addr     net.Addr
}

// New returns an unstarted server.
func New(clock clockwork.Clock, capture stack.Capturer) *Server {
	s := &Server{
		registry: registry.New(),
		builder:  record.NewBuilder(clock, capture),
		clock:    clock,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/", s.handleViewer)
	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo = e
	return s
}

// Start binds the listener and launches the accept loop. A bind failure is
// returned to the caller; the process cannot offer the stream without the
// port. Start returns after a short grace delay so the accept loop is
// usually ready by the time application code logs.
func (s *Server) Start(port int, serviceName string) error {
	s.mu.Lock()
	if s.starting || s.initialized {
		s.mu.Unlock()
		return fmt.Errorf("log stream server already started")
	}
	s.starting = true
	s.serviceName = serviceName
	s.mu.Unlock()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		s.mu.Lock()
		s.starting = false
		s.mu.Unlock()
		return fmt.Errorf("bind log stream port %d: %w", port, err)
	}
	s.echo.Listener = ln

	go func() {
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Log stream server error", "error", err)
		}
	}()

	s.mu.Lock()
	s.initialized = true
	s.addr = ln.Addr()
	s.mu.Unlock()

	slog.Info("Log stream server running", "addr", ln.Addr().String(), "service", serviceName)
	s.clock.Sleep(startupGrace)
	return nil
}

// Shutdown stops the listener and disconnects all viewers. Used by embedding
// processes and tests; steady-state deployments run until process exit.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)

	// Hijacked WebSocket connections outlive the HTTP server; close them
	// through the registry so viewer read loops unblock.
	var ids []uint64
	s.registry.ForEach(func(sess *registry.Session) { ids = append(ids, sess.ID()) })
	for _, id := range ids {
		if s.registry.Remove(id) {
			metrics.ConnectedClients.Dec()
		}
	}
	return err
}

// IsInitialized reports whether Start has completed a successful bind.
func (s *Server) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// ClientCount returns the number of connected viewers.
func (s *Server) ClientCount() int {
	return s.registry.Count()
}

// ServiceName returns the name recorded at Start.
func (s *Server) ServiceName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serviceName
}

// Addr returns the bound listener address, or empty before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

// Log builds a record and pushes it to every connected viewer. It is a
// no-op before Start and while no viewer is connected, skipping stack
// capture and serialization entirely — the dominant path in deployments
// with no attached viewer. Nothing propagates back to the caller.
func (s *Server) Log(level record.Level, args []structured.Value, file string, line uint32, function string) {
	s.mu.RLock()
	initialized := s.initialized
	service := s.serviceName
	s.mu.RUnlock()

	if !initialized || s.registry.Count() == 0 {
		return
	}

	rec := s.builder.Build(level, args, service, file, line, function)

	// Serialize once so every viewer observes byte-identical payloads.
	payload, err := json.Marshal(rec)
	if err != nil {
		slog.Error("Failed to serialize log record", "error", err, "record_id", rec.ID)
		return
	}

	var failed []uint64
	s.registry.ForEach(func(sess *registry.Session) {
		if err := sess.Send(payload); err != nil {
			failed = append(failed, sess.ID())
		}
	})

	// Prune after iterating; a failed send doubles as disconnect detection.
	for _, id := range failed {
		if s.registry.Remove(id) {
			metrics.ConnectedClients.Dec()
			metrics.DroppedSessionsTotal.Inc()
			slog.Debug("Viewer pruned after send failure", "session_id", id)
		}
	}
	metrics.BroadcastsTotal.Inc()
}
