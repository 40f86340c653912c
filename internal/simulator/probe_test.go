package simulator

import (
	"net"
	"os"
	"testing"
)

func TestIsRunningNoArtifact(t *testing.T) {
	m := newTestManager(t)
	if m.IsRunning() {
		t.Fatal("no socket file, probe must be negative")
	}
}

func TestIsRunningAcceptedConnection(t *testing.T) {
	m := newTestManager(t)
	if err := os.MkdirAll(m.InstallDir(), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	ln, err := net.Listen("unix", m.Endpoint())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()

	if !m.IsRunning() {
		t.Fatal("listening socket, probe must be positive")
	}
}

func TestIsRunningStaleSocketFile(t *testing.T) {
	m := newTestManager(t)
	if err := os.MkdirAll(m.InstallDir(), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// a plain file at the socket path mimics the leftovers of a crash:
	// the artifact exists but nothing answers
	if err := os.WriteFile(m.Endpoint(), nil, 0o600); err != nil {
		t.Fatalf("write stale artifact: %v", err)
	}
	if m.IsRunning() {
		t.Fatal("stale artifact must not count as running")
	}
}

func TestIsRunningAfterListenerCloses(t *testing.T) {
	m := newTestManager(t)
	if err := os.MkdirAll(m.InstallDir(), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	ln, err := net.Listen("unix", m.Endpoint())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_ = ln.Close()
	if m.IsRunning() {
		t.Fatal("probe positive after listener closed")
	}
}
