package simulator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Phala-Network/phala-cloud-cli/internal/history"
	"github.com/Phala-Network/phala-cloud-cli/internal/metrics"
	"github.com/Phala-Network/phala-cloud-cli/internal/platform"
)

// Options controls a single Run invocation.
type Options struct {
	Background bool   // release the child so the caller may exit
	LogToFile  bool   // redirect simulator stdio to the log file
	LogFile    string // override the default log path
}

// Run spawns the simulator as a detached process, records its PID, and
// appends a session banner to the log. On successful return a PID file
// exists, but the transport may not yet accept connections; confirm
// liveness with IsRunning separately.
func (m *Manager) Run(opts Options) (*exec.Cmd, error) {
	if pid := m.TrackedPID(); pid != 0 {
		return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}

	endpoint := m.Endpoint()
	if m.strategy.Network() == "unix" {
		if n := len(endpoint); n > platform.MaxUnixSocketPath {
			return nil, fmt.Errorf("%w: %s is %d bytes, limit %d",
				ErrPathTooLong, endpoint, n, platform.MaxUnixSocketPath)
		}
		// A crash can leave the socket file behind and block the bind.
		if err := os.Remove(endpoint); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	logPath := opts.LogFile
	if logPath == "" {
		logPath = m.logFile
	}
	logF, err := m.openSessionLog(logPath, opts.LogToFile)
	if err != nil {
		return nil, err
	}

	// The simulator binds its socket in the working directory, so Dir must
	// be the install dir for Endpoint to hold.
	// #nosec G204 -- binary path is built from the resolved install layout
	cmd := exec.Command(m.inst.BinaryPath())
	cmd.Dir = m.InstallDir()
	cmd.Stdin = nil
	cmd.Stdout = logF
	cmd.Stderr = logF
	detachAttrs(cmd)

	if err := cmd.Start(); err != nil {
		_ = logF.Close()
		m.record(context.Background(), history.ActionStart, 0, err)
		return nil, fmt.Errorf("start %s: %w", m.inst.BinaryPath(), err)
	}
	pid := cmd.Process.Pid
	if err := m.writePIDFile(pid); err != nil {
		m.logger.Warn("failed to write pid file", "pid", pid, "error", err)
	}
	if opts.LogToFile {
		_, _ = fmt.Fprintf(logF, "=== Simulator started at %s ===\n%s\n",
			time.Now().Format(time.RFC3339), strings.Join(cmd.Args, " "))
	}
	// The file was opened only for spawn setup; the child holds its own
	// descriptor from here on.
	_ = logF.Close()

	if opts.Background {
		// Drop our handle so exiting the CLI does not reap or block on the
		// child. The PID file is the only remaining reference.
		_ = cmd.Process.Release()
	}

	m.logger.Info("simulator started", "pid", pid, "endpoint", endpoint)
	metrics.IncStart()
	m.record(context.Background(), history.ActionStart, pid, nil)
	return cmd, nil
}

// openSessionLog opens the append-mode session log, or the null device
// when file logging is off. The log is never rotated or truncated here.
func (m *Manager) openSessionLog(path string, toFile bool) (*os.File, error) {
	if !toFile {
		return os.OpenFile(os.DevNull, os.O_RDWR, 0)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	// #nosec G304 -- path comes from config or flags
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
