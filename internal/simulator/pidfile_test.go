package simulator

import (
	"os"
	"os/exec"
	"testing"
)

func TestPIDFileRoundTrip(t *testing.T) {
	m := newTestManager(t)
	if err := m.writePIDFile(4242); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	pid, err := m.readPIDFile()
	if err != nil {
		t.Fatalf("readPIDFile: %v", err)
	}
	if pid != 4242 {
		t.Fatalf("pid = %d, want 4242", pid)
	}
	b, err := os.ReadFile(m.PIDFile())
	if err != nil {
		t.Fatalf("raw read: %v", err)
	}
	if string(b) != "4242" {
		t.Fatalf("pid file content %q, want decimal text", b)
	}
}

func TestReadPIDFileMissing(t *testing.T) {
	m := newTestManager(t)
	pid, err := m.readPIDFile()
	if err != nil || pid != 0 {
		t.Fatalf("missing file: got (%d, %v), want (0, nil)", pid, err)
	}
}

func TestTrackedPIDLive(t *testing.T) {
	m := newTestManager(t)
	// our own process is certainly alive
	if err := m.writePIDFile(os.Getpid()); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	if got := m.TrackedPID(); got != os.Getpid() {
		t.Fatalf("TrackedPID = %d, want %d", got, os.Getpid())
	}
}

func TestTrackedPIDStaleRecordSelfHeals(t *testing.T) {
	m := newTestManager(t)
	cmd := exec.Command("sleep", "0.01")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	pid := cmd.Process.Pid
	_ = cmd.Wait()
	if err := m.writePIDFile(pid); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	if got := m.TrackedPID(); got != 0 {
		t.Fatalf("TrackedPID for dead process = %d, want 0", got)
	}
	if _, err := os.Stat(m.PIDFile()); !os.IsNotExist(err) {
		t.Fatalf("stale pid file not removed: %v", err)
	}
}

func TestTrackedPIDGarbageRecord(t *testing.T) {
	m := newTestManager(t)
	if err := os.WriteFile(m.PIDFile(), []byte("not-a-pid"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := m.TrackedPID(); got != 0 {
		t.Fatalf("TrackedPID for garbage record = %d, want 0", got)
	}
	if _, err := os.Stat(m.PIDFile()); !os.IsNotExist(err) {
		t.Fatal("garbage pid file should be removed")
	}
}
