package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestConnectedClientsGauge(t *testing.T) {
	before := testutil.ToFloat64(ConnectedClients)

	ConnectedClients.Inc()
	ConnectedClients.Inc()
	assert.Equal(t, before+2, testutil.ToFloat64(ConnectedClients))

	ConnectedClients.Dec()
	ConnectedClients.Dec()
	assert.Equal(t, before, testutil.ToFloat64(ConnectedClients))
}

func TestCountersIncrement(t *testing.T) {
	broadcasts := testutil.ToFloat64(BroadcastsTotal)
	dropped := testutil.ToFloat64(DroppedSessionsTotal)
	handshakes := testutil.ToFloat64(HandshakeFailuresTotal)

	BroadcastsTotal.Inc()
	DroppedSessionsTotal.Inc()
	HandshakeFailuresTotal.Inc()

	assert.Equal(t, broadcasts+1, testutil.ToFloat64(BroadcastsTotal))
	assert.Equal(t, dropped+1, testutil.ToFloat64(DroppedSessionsTotal))
	assert.Equal(t, handshakes+1, testutil.ToFloat64(HandshakeFailuresTotal))
}
