//go:build linux

// Package affinity best-effort pins the calling goroutine's backing OS
// thread to a single CPU.
package affinity

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to its current OS thread and attempts to
// restrict that thread to cpu. Returns false and logs a warning on
// failure; never returns an error, matching the "log and continue"
// contract — affinity is a hint, not a requirement.
func Pin(cpu int) bool {
	if cpu < 0 {
		return false
	}
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		fmt.Fprintf(os.Stderr, "[warn] affinity.Pin failed: %v\n", err)
		return false
	}
	return true
}
