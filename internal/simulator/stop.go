package simulator

import (
	"context"
	"fmt"
	"os"

	"github.com/Phala-Network/phala-cloud-cli/internal/envvars"
	"github.com/Phala-Network/phala-cloud-cli/internal/history"
	"github.com/Phala-Network/phala-cloud-cli/internal/metrics"
	"github.com/Phala-Network/phala-cloud-cli/internal/platform"
)

// Stop terminates the tracked simulator and reconciles its artifacts.
// Idempotent: a missing record, a stale record, and an unreachable
// transport all count as already stopped. The manager holds no ownership
// of the child past launch; the PID is a weak reference it can only
// signal or verify.
func (m *Manager) Stop(ctx context.Context) error {
	pid, err := m.readPIDFile()
	if err != nil {
		m.logger.Warn("unreadable pid file", "path", m.pidFile, "error", err)
		pid = 0
	}
	if pid > 0 && !pidAlive(pid) {
		// Killed outside the manager; treat as already stopped and heal.
		m.logger.Debug("tracked pid is gone", "pid", pid)
		pid = 0
	}
	running := m.IsRunning()
	if pid == 0 && !running {
		m.cleanup()
		return nil
	}

	switch {
	case pid > 0:
		gone, err := terminate(pid)
		if err != nil {
			err = fmt.Errorf("%w: signaling pid %d: %w", ErrStopFailed, pid, err)
			m.record(ctx, history.ActionStop, pid, err)
			return err
		}
		if gone {
			m.logger.Debug("pid vanished before signal", "pid", pid)
		}
	case running:
		// Transport is live but nothing is tracked: a previous invocation
		// lost the record. Fall back to matching by executable name.
		if err := killByName(platform.BinaryName); err != nil {
			err = fmt.Errorf("%w: kill by name: %w", ErrStopFailed, err)
			m.record(ctx, history.ActionStop, 0, err)
			return err
		}
	}

	m.cleanup()
	m.logger.Info("simulator stopped", "pid", pid)
	metrics.IncStop()
	m.record(ctx, history.ActionStop, pid, nil)
	return nil
}

// cleanup reconciles on-disk and environment artifacts after a stop: the
// PID record, a leftover socket file, and both published endpoint
// variables.
func (m *Manager) cleanup() {
	m.removePIDFile()
	if m.strategy.Network() == "unix" {
		if err := os.Remove(m.Endpoint()); err != nil && !os.IsNotExist(err) {
			m.logger.Debug("socket cleanup failed", "path", m.Endpoint(), "error", err)
		}
	}
	envvars.Unpublish()
}
