// File: task/goid.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Go provides no goroutine-local storage, so Self() emulates it with the
// standard dependency-free trick of parsing the goroutine id out of a
// runtime.Stack trailer. This is only ever called at Spawn (once per task
// lifetime) and at Self() (comparatively rare, at stream Open sites), not
// on the Read/Write/Poll hot path.

package task

import (
	"runtime"
	"strconv"
)

func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	// b starts with "goroutine 123 [running]:"
	const prefix = "goroutine "
	if len(b) < len(prefix) {
		return -1
	}
	b = b[len(prefix):]
	i := 0
	for i < len(b) && b[i] != ' ' {
		i++
	}
	id, err := strconv.ParseInt(string(b[:i]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}
