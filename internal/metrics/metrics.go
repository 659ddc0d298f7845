// Package metrics defines Prometheus instrumentation for the stream server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectedClients tracks the number of currently connected viewers.
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slogx_connected_clients",
			Help: "Number of currently connected log viewers",
		},
	)

	// BroadcastsTotal counts log records fanned out to viewers.
	BroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slogx_broadcasts_total",
			Help: "Total log records broadcast to connected viewers",
		},
	)

	// DroppedSessionsTotal counts sessions pruned after a failed send.
	DroppedSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slogx_dropped_sessions_total",
			Help: "Total viewer sessions pruned after a send failure",
		},
	)

	// HandshakeFailuresTotal counts inbound connections that failed the
	// WebSocket upgrade.
	HandshakeFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slogx_handshake_failures_total",
			Help: "Total inbound connections that failed the WebSocket upgrade",
		},
	)
)
