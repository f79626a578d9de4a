// Package pool
// Author: momentics <momentics@gmail.com>
//
// Object pooling and ring-buffer adaptation for the lpel runtime. Provides
// SyncPool, a generic api.ObjectPool backed by sync.Pool for recycling
// stream descriptors, and BufferRing, an api.Ring adapter
// over the internal lock-free ring buffer used by the event loop and by
// callers that need a generic FIFO rather than the stream package's
// dedicated SPSC buffer.
package pool
