package simulator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Phala-Network/phala-cloud-cli/internal/history"
	"github.com/Phala-Network/phala-cloud-cli/internal/platform"
)

func TestNewDefaults(t *testing.T) {
	requireUnix(t)
	m, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.probeTimeout != DefaultProbeTimeout {
		t.Fatalf("probe timeout %v, want %v", m.probeTimeout, DefaultProbeTimeout)
	}
	if filepath.Base(m.PIDFile()) != platform.BinaryName+".pid" {
		t.Fatalf("pid file %q not named after the binary", m.PIDFile())
	}
	if filepath.Dir(m.PIDFile()) != filepath.Clean(os.TempDir()) {
		t.Fatalf("pid file %q not in temp dir", m.PIDFile())
	}
	if got := filepath.Base(m.InstallDir()); got != platform.DefaultVersion {
		t.Fatalf("install dir leaf %q, want version %q", got, platform.DefaultVersion)
	}
}

func TestEnsureRunningSpawnsOnce(t *testing.T) {
	m := newTestManager(t)
	installFakeBinary(t, m)

	endpoint, err := m.EnsureRunning(context.Background(), Options{Background: true})
	if err != nil {
		t.Fatalf("EnsureRunning: %v", err)
	}
	if endpoint != m.Endpoint() {
		t.Fatalf("endpoint %q, want %q", endpoint, m.Endpoint())
	}
	pid, err := m.readPIDFile()
	if err != nil || pid == 0 {
		t.Fatalf("no tracked pid after EnsureRunning: (%d, %v)", pid, err)
	}
	reapLater(t, pid)

	// second call must not relaunch while the tracked pid is alive
	if _, err := m.EnsureRunning(context.Background(), Options{Background: true}); err != nil {
		t.Fatalf("second EnsureRunning: %v", err)
	}
	again, _ := m.readPIDFile()
	if again != pid {
		t.Fatalf("tracked pid changed %d -> %d; simulator was relaunched", pid, again)
	}
}

func TestEnsureRunningUnsupportedPlatformInstall(t *testing.T) {
	dir := t.TempDir()
	m, err := New(Config{
		Strategy: platform.Windows{},
		Root:     filepath.Join(dir, "sim"),
		PIDFile:  filepath.Join(dir, "sim.pid"),
		LogFile:  filepath.Join(dir, "sim.log"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = m.EnsureRunning(context.Background(), Options{})
	if !errors.Is(err, platform.ErrUnsupported) {
		t.Fatalf("want ErrUnsupported from windows install, got %v", err)
	}
}

type captureSink struct {
	events []history.Event
}

func (c *captureSink) Send(_ context.Context, e history.Event) error {
	c.events = append(c.events, e)
	return nil
}

func (c *captureSink) Close() error { return nil }

func TestLifecycleEventsRecorded(t *testing.T) {
	m := newTestManager(t)
	sink := &captureSink{}
	m.history = sink
	installFakeBinary(t, m)

	cmd, err := m.Run(Options{Background: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	reapLater(t, cmd.Process.Pid)
	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if len(sink.events) != 2 {
		t.Fatalf("events = %d, want start+stop", len(sink.events))
	}
	if sink.events[0].Action != history.ActionStart || sink.events[0].PID != cmd.Process.Pid {
		t.Fatalf("unexpected first event: %+v", sink.events[0])
	}
	if sink.events[1].Action != history.ActionStop {
		t.Fatalf("unexpected second event: %+v", sink.events[1])
	}
	for _, e := range sink.events {
		if e.OccurredAt.IsZero() || time.Since(e.OccurredAt) > time.Minute {
			t.Fatalf("implausible event timestamp: %+v", e)
		}
	}
}

func TestSnapshotIdle(t *testing.T) {
	m := newTestManager(t)
	st := m.Snapshot()
	if st.Installed || st.Running || st.PID != 0 {
		t.Fatalf("idle snapshot not idle: %+v", st)
	}
	if st.Endpoint != m.Endpoint() || st.Version != "test" {
		t.Fatalf("snapshot metadata wrong: %+v", st)
	}
}
