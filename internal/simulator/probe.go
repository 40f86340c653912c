package simulator

import (
	"net"
	"os"

	"github.com/Phala-Network/phala-cloud-cli/internal/metrics"
)

// IsRunning reports whether the simulator transport currently accepts
// connections. The check is two-phase on unix: a missing socket file is a
// cheap negative, and an existing one is never trusted on its own — a
// crashed simulator leaves the file behind — so a bounded connect must
// succeed. Timeouts and connect errors are plain negatives, never errors,
// and net.DialTimeout tears the pending attempt down on expiry so repeated
// status checks do not accumulate half-open connections.
func (m *Manager) IsRunning() bool {
	endpoint := m.Endpoint()
	if m.strategy.Network() == "unix" {
		if _, err := os.Stat(endpoint); err != nil {
			metrics.ObserveProbe(false)
			return false
		}
	}
	conn, err := net.DialTimeout(m.strategy.Network(), endpoint, m.probeTimeout)
	if err != nil {
		metrics.ObserveProbe(false)
		return false
	}
	_ = conn.Close()
	metrics.ObserveProbe(true)
	return true
}
