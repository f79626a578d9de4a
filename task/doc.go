// Package task implements the cooperative task runtime the stream package
// consumes through api.Scheduler: Self, Block, and Unblock, backed by a
// per-task goroutine and a buffered park channel instead of a stackful
// coroutine switch. Scheduler also owns the CPU-pinned worker pool used
// for ancillary computational dispatch and a batched notification loop
// that lets monitoring code observe Unblock events off the hot path.
package task
