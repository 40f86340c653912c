package simulator

import (
	gps "github.com/shirou/gopsutil/v4/process"
)

// killByName terminates every process whose executable name matches name.
// Fallback path only: used when the transport answers but no PID is
// tracked. No match is success — whatever answered the probe is gone or
// was never the simulator.
func killByName(name string) error {
	procs, err := gps.Processes()
	if err != nil {
		return err
	}
	var firstErr error
	for _, p := range procs {
		n, err := p.Name()
		if err != nil || n != name {
			continue
		}
		if err := p.Terminate(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
