package simulator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Phala-Network/phala-cloud-cli/internal/history"
	"github.com/Phala-Network/phala-cloud-cli/internal/installer"
	"github.com/Phala-Network/phala-cloud-cli/internal/metrics"
	"github.com/Phala-Network/phala-cloud-cli/internal/platform"
)

// DefaultProbeTimeout bounds a single liveness connection attempt.
const DefaultProbeTimeout = time.Second

// Config assembles a Manager. Zero values fall back to the conventional
// layout under the user's home directory and system temp dir.
type Config struct {
	Strategy     platform.Strategy // default platform.Resolve()
	Root         string            // install root, default ~/.phala-cloud/simulator
	Version      string
	DownloadBase string
	PIDFile      string // default <tmp>/tappd-simulator.pid
	LogFile      string // default ~/.phala-cloud/logs/tappd-simulator.log
	ProbeTimeout time.Duration
	Logger       *slog.Logger
	History      history.Sink // optional lifecycle audit
}

// Manager drives the simulator lifecycle: install, run, probe, stop. One
// value is constructed per CLI invocation and owns no long-lived state;
// the PID file is the only shared mutable resource and carries no lock,
// so two concurrent invocations race with last-writer-wins semantics.
type Manager struct {
	strategy     platform.Strategy
	inst         *installer.Installer
	pidFile      string
	logFile      string
	probeTimeout time.Duration
	logger       *slog.Logger
	history      history.Sink
}

// New resolves defaults and builds a Manager. It fails only when no
// Strategy was supplied and the running OS is unsupported.
func New(cfg Config) (*Manager, error) {
	strategy := cfg.Strategy
	if strategy == nil {
		var err error
		strategy, err = platform.Resolve()
		if err != nil {
			return nil, err
		}
	}
	root := cfg.Root
	if root == "" {
		root = filepath.Join(homeDir(), ".phala-cloud", "simulator")
	}
	version := cfg.Version
	if version == "" {
		version = platform.DefaultVersion
	}
	pidFile := cfg.PIDFile
	if pidFile == "" {
		pidFile = filepath.Join(os.TempDir(), platform.BinaryName+".pid")
	}
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = filepath.Join(homeDir(), ".phala-cloud", "logs", platform.BinaryName+".log")
	}
	timeout := cfg.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	lg := cfg.Logger
	if lg == nil {
		lg = slog.Default()
	}
	return &Manager{
		strategy: strategy,
		inst: &installer.Installer{
			Strategy:     strategy,
			Root:         root,
			Version:      version,
			DownloadBase: cfg.DownloadBase,
			Logger:       lg,
		},
		pidFile:      pidFile,
		logFile:      logFile,
		probeTimeout: timeout,
		logger:       lg,
		history:      cfg.History,
	}, nil
}

// InstallDir returns the version-named directory the binary lives in.
func (m *Manager) InstallDir() string { return m.inst.Dir() }

// Endpoint returns the transport address clients dial for this install.
func (m *Manager) Endpoint() string { return m.strategy.Endpoint(m.inst.Dir()) }

// PIDFile returns the path of the tracked process record.
func (m *Manager) PIDFile() string { return m.pidFile }

// Installed reports whether the simulator binary is present on disk.
func (m *Manager) Installed() bool { return m.inst.Installed() }

// Install provisions the simulator binary if absent. Idempotent.
func (m *Manager) Install(ctx context.Context) error {
	if m.inst.Installed() {
		return nil
	}
	if err := m.inst.Install(ctx); err != nil {
		m.record(ctx, history.ActionInstall, 0, err)
		return err
	}
	metrics.IncInstall()
	m.record(ctx, history.ActionInstall, 0, nil)
	return nil
}

// EnsureRunning provisions and starts the simulator as needed and returns
// the endpoint clients should dial. A tracked live PID suppresses a
// relaunch even while the transport is still coming up.
func (m *Manager) EnsureRunning(ctx context.Context, opts Options) (string, error) {
	if err := m.Install(ctx); err != nil {
		return "", err
	}
	if m.TrackedPID() == 0 && !m.IsRunning() {
		if _, err := m.Run(opts); err != nil {
			return "", err
		}
	}
	return m.Endpoint(), nil
}

// Status is a point-in-time snapshot of the lifecycle state.
type Status struct {
	Installed bool   `json:"installed"`
	Running   bool   `json:"running"`
	PID       int    `json:"pid,omitempty"`
	Endpoint  string `json:"endpoint"`
	Version   string `json:"version"`
}

// Snapshot gathers install state, tracked PID, and probe result.
func (m *Manager) Snapshot() Status {
	return Status{
		Installed: m.Installed(),
		Running:   m.IsRunning(),
		PID:       m.TrackedPID(),
		Endpoint:  m.Endpoint(),
		Version:   m.inst.Version,
	}
}

// record appends a lifecycle event to the audit sink when one is
// configured. Sink failures are logged and swallowed.
func (m *Manager) record(ctx context.Context, action string, pid int, opErr error) {
	if m.history == nil {
		return
	}
	e := history.Event{OccurredAt: time.Now(), Action: action, PID: pid}
	if opErr != nil {
		e.Error = opErr.Error()
	}
	if err := m.history.Send(ctx, e); err != nil {
		m.logger.Warn("history sink send failed", "action", action, "error", err)
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
