//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity, via
// golang.org/x/sys/unix's sched_setaffinity wrapper — cgo-free, unlike the
// pthread_setaffinity_np route, and the same dependency the teacher uses
// for its Windows affinity path.

package affinity

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// setAffinityPlatform sets the calling OS thread's affinity to cpuID. It
// locks the calling goroutine to its current OS thread first, since the
// affinity would otherwise apply to a thread the Go runtime is free to
// hand to a different goroutine on the next reschedule.
func setAffinityPlatform(cpuID int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: SchedSetaffinity failed: %w", err)
	}
	return nil
}
