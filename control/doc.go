// Package control is the stream runtime's monitoring and configuration
// control surface.
//
// Author: momentics <momentics@gmail.com>
//
// Provides concurrent-safe state handling primitives including:
//   - Registry, the api.Monitor/api.Control implementation minting
//     per-descriptor StreamMonitor handles
//   - A bounded per-stream EventHistory and a process-wide recent-events
//     feed
//   - Runtime observers for config hot-reload
//   - Metrics telemetry and debug probe registration
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
