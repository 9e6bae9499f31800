package check

import (
	"errors"
)

// Sentinel errors returned (wrapped) by the Harness check operations.
// Callers can classify failures with errors.Is and decide whether to
// exit, raise, or log.
var (
	// ErrNoContainers is returned by CheckContainers when the input
	// list is empty; at least one container must be configured.
	ErrNoContainers = errors.New("no containers configured")

	// ErrNotRunning indicates a container descriptor reported not
	// running.
	ErrNotRunning = errors.New("container is not running")

	// ErrUnhealthy indicates a running container failed its health
	// check.
	ErrUnhealthy = errors.New("container health check failed")

	// ErrRequiredUnreachable indicates a required service probe failed.
	ErrRequiredUnreachable = errors.New("required service unreachable")

	// ErrEndToEnd indicates the end-to-end callback returned an error.
	ErrEndToEnd = errors.New("end-to-end check failed")
)
