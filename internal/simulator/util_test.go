package simulator

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/Phala-Network/phala-cloud-cli/internal/platform"
)

const (
	timeoutShort = 2 * time.Second
	pollStep     = 20 * time.Millisecond
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires unix domain sockets and POSIX signals")
	}
}

func waitUntil(d, step time.Duration, fn func() bool) bool {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if fn() {
			return true
		}
		time.Sleep(step)
	}
	return fn()
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	requireUnix(t)
	dir := t.TempDir()
	m, err := New(Config{
		Root:         filepath.Join(dir, "sim"),
		Version:      "test",
		PIDFile:      filepath.Join(dir, "sim.pid"),
		LogFile:      filepath.Join(dir, "logs", "sim.log"),
		ProbeTimeout: 200 * time.Millisecond,
		Logger:       slog.New(slog.NewTextHandler(os.Stderr, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

// installFakeBinary drops a long-running stand-in for the simulator into
// the manager's install dir so Run has something real to spawn.
func installFakeBinary(t *testing.T, m *Manager) {
	t.Helper()
	if err := os.MkdirAll(m.InstallDir(), 0o750); err != nil {
		t.Fatalf("mkdir install dir: %v", err)
	}
	script := "#!/bin/sh\nexec sleep 30\n"
	path := filepath.Join(m.InstallDir(), platform.BinaryName)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
}

// reapLater makes sure a test-spawned simulator does not outlive the test.
func reapLater(t *testing.T, pid int) {
	t.Helper()
	t.Cleanup(func() {
		_, _ = terminate(pid)
	})
}
