// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for the concurrency package.

package concurrency

import "errors"

var (
	// ErrExecutorClosed indicates the executor has been shut down.
	ErrExecutorClosed = errors.New("concurrency: executor is closed")

	// ErrInvalidWorkerCount indicates an invalid worker count configuration.
	ErrInvalidWorkerCount = errors.New("concurrency: invalid worker count")
)
