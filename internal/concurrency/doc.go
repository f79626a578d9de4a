// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lock-free ring buffers, a CPU-pinned worker pool, and a batching event
// loop backing the task scheduler. Cross-platform (Linux/Windows); CPU
// pinning goes through the top-level affinity package.
package concurrency
