package simulator

import "errors"

var (
	// ErrAlreadyRunning is returned by Run when a live tracked simulator
	// exists. Informational: the existing process is left untouched.
	ErrAlreadyRunning = errors.New("simulator is already running")

	// ErrPathTooLong is returned by Run before anything is spawned when the
	// unix socket path exceeds the sun_path ceiling. The only remedy is a
	// shorter install root.
	ErrPathTooLong = errors.New("socket path exceeds the unix domain socket limit")

	// ErrStopFailed is returned by Stop when a live simulator could not be
	// signaled; manual intervention is required.
	ErrStopFailed = errors.New("failed to stop simulator")
)
