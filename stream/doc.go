// Package stream implements the lock-free bounded single-producer/
// single-consumer stream communication core: a FastForward-style ring
// buffer, the n_sem/e_sem signed-counter suspension protocol for Read and
// Write, and the Poll algorithm that lets a consumer wait on a Set of
// streams and wake on exactly one of them.
//
// The package never creates or steps tasks itself; it calls into an
// api.Scheduler installed with SetScheduler whenever an operation must
// suspend the calling task, and into an api.Monitor (reached through the
// api.Task passed to Open) to report lifecycle and data-movement events.
package stream
