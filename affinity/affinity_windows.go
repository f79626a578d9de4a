//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity, via
// golang.org/x/sys/windows rather than raw syscall.NewLazyDLL, matching
// the teacher's own Windows affinity path.

package affinity

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

// setAffinityPlatform sets thread affinity to a given CPU for Windows.
func setAffinityPlatform(cpuID int) error {
	runtime.LockOSThread()
	handle := windows.CurrentThread()
	mask := uintptr(1) << uint(cpuID)
	old, err := windows.SetThreadAffinityMask(handle, mask)
	if old == 0 {
		return fmt.Errorf("affinity: SetThreadAffinityMask failed: %w", err)
	}
	return nil
}
