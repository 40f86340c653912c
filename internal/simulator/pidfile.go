package simulator

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// writePIDFile records the spawned process id as decimal text. At most one
// record exists system-wide.
func (m *Manager) writePIDFile(pid int) error {
	if err := os.MkdirAll(filepath.Dir(m.pidFile), 0o750); err != nil {
		return err
	}
	return os.WriteFile(m.pidFile, []byte(strconv.Itoa(pid)), 0o600)
}

// readPIDFile returns the recorded PID, or 0 when no record exists. A
// record's existence says nothing about liveness; see TrackedPID.
func (m *Manager) readPIDFile() (int, error) {
	b, err := os.ReadFile(m.pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("invalid pid in %s: %w", m.pidFile, err)
	}
	return pid, nil
}

// TrackedPID returns the PID of the live tracked simulator, or 0. A record
// whose PID no longer resolves to a live OS process is deleted on the spot,
// so a crash outside the manager heals on the next read.
func (m *Manager) TrackedPID() int {
	pid, err := m.readPIDFile()
	if err != nil {
		m.logger.Warn("unreadable pid file", "path", m.pidFile, "error", err)
		_ = os.Remove(m.pidFile)
		return 0
	}
	if pid <= 0 {
		return 0
	}
	if !pidAlive(pid) {
		m.logger.Debug("removing stale pid record", "pid", pid)
		_ = os.Remove(m.pidFile)
		return 0
	}
	return pid
}

func (m *Manager) removePIDFile() {
	_ = os.Remove(m.pidFile)
}
