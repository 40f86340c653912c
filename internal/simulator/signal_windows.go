//go:build windows

package simulator

import (
	"os/exec"
	"syscall"

	gps "github.com/shirou/gopsutil/v4/process"
)

// pidAlive reports whether pid resolves to a live process.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	ok, err := gps.PidExists(int32(pid))
	return err == nil && ok
}

// terminate kills pid. Windows has no SIGTERM; TerminateProcess is the
// closest equivalent. A missing process is a benign already-gone outcome.
func terminate(pid int) (gone bool, err error) {
	p, err := gps.NewProcess(int32(pid))
	if err != nil {
		// gopsutil returns an error when the PID does not exist
		return true, nil
	}
	if err := p.Kill(); err != nil {
		return false, err
	}
	return false, nil
}

// detachAttrs starts the child in a new process group without a console
// window so it survives the launching CLI's exit.
func detachAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | 0x08000000, // CREATE_NO_WINDOW
	}
}
