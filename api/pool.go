// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines abstract pooling APIs for transient object reuse. Descriptors and
// other small, frequently allocated objects can be recycled through an
// ObjectPool instead of round-tripping through the garbage collector.

package api

// ObjectPool provides generic pooling of Go objects allocated transiently.
type ObjectPool[T any] interface {
	// Get returns an available instance from the pool.
	Get() T

	// Put returns an instance for reuse.
	Put(obj T)
}
