//go:build !windows

package simulator

import (
	"errors"
	"os/exec"
	"syscall"
)

// pidAlive reports whether pid resolves to a live process. EPERM still
// means the process exists.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

// terminate sends SIGTERM to pid. ESRCH is a benign already-gone outcome,
// reported via gone rather than err.
func terminate(pid int) (gone bool, err error) {
	err = syscall.Kill(pid, syscall.SIGTERM)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, syscall.ESRCH) {
		return true, nil
	}
	return false, err
}

// detachAttrs puts the child in its own session so it survives the
// launching CLI's exit.
func detachAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
