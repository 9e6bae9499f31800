package check

import (
	"time"
)

// Result captures the outcome of validating one descriptor. Results
// are created by the Harness during a check pass and are read-only
// afterward.
type Result struct {
	// Subject is the name of the descriptor this result belongs to.
	Subject string

	// Healthy indicates whether the check passed.
	Healthy bool

	// Message carries the failure reason, or a diagnostic summary
	// (host/port/image) on success. It is never empty for an
	// unhealthy result.
	Message string

	// Elapsed is how long the check took.
	Elapsed time.Duration

	// Timestamp is when the result was produced.
	Timestamp time.Time
}

// Pass builds a healthy Result.
func Pass(subject, message string, elapsed time.Duration) Result {
	return Result{
		Subject:   subject,
		Healthy:   true,
		Message:   message,
		Elapsed:   elapsed,
		Timestamp: time.Now(),
	}
}

// Fail builds an unhealthy Result. An empty message is replaced with
// "unhealthy" so that failed results always carry a reason.
func Fail(subject, message string, elapsed time.Duration) Result {
	if message == "" {
		message = "unhealthy"
	}
	return Result{
		Subject:   subject,
		Healthy:   false,
		Message:   message,
		Elapsed:   elapsed,
		Timestamp: time.Now(),
	}
}
