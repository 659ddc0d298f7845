package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"

	"github.com/binhonglee/slogx/internal/metrics"
	"github.com/binhonglee/slogx/internal/version"
)

const writeDeadline = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // viewers connect from local tooling, any origin
	},
}

// wsSink adapts a WebSocket connection to the registry's Sink. Only the
// broadcast path writes to it, under the registry's exclusive section.
type wsSink struct {
	conn  *websocket.Conn
	clock clockwork.Clock
}

func (w *wsSink) Send(payload []byte) error {
	_ = w.conn.SetWriteDeadline(w.clock.Now().Add(writeDeadline))
	return w.conn.WriteMessage(websocket.TextMessage, payload)
}

func (w *wsSink) Close() error {
	return w.conn.Close()
}

// handleViewer upgrades an inbound connection, registers the session, and
// runs the read pump. Inbound data is never interpreted; reads exist only
// to detect disconnects.
func (s *Server) handleViewer(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Recoverable: drop this attempt, keep accepting others.
		metrics.HandshakeFailuresTotal.Inc()
		slog.Warn("Viewer handshake failed", "remote", c.RealIP(), "error", err)
		return nil
	}

	id := s.registry.Insert(&wsSink{conn: conn, clock: s.clock})
	metrics.ConnectedClients.Inc()
	slog.Debug("Viewer connected", "session_id", id, "remote", c.RealIP())

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	if s.registry.Remove(id) {
		metrics.ConnectedClients.Dec()
	}
	slog.Debug("Viewer disconnected", "session_id", id)

	return nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"service": s.ServiceName(),
		"clients": s.ClientCount(),
		"version": version.Get(),
	})
}
