// Package e2e provides end-to-end workflow callbacks for the harness.
//
// Each builder returns a zero-argument function suitable for
// check.Harness.CheckEndToEnd: it exercises the real client path of a
// dependency (cache write+read, message publish, datastore query) and
// returns an error describing the first thing that went wrong.
package e2e

import (
	"time"
)

const (
	// workflowTimeout bounds one complete dependency workflow.
	workflowTimeout = 10 * time.Second

	// connectTimeout bounds the initial connection inside a workflow.
	connectTimeout = 5 * time.Second
)

// All composes callbacks sequentially; the first error aborts and is
// returned.
func All(fns ...func() error) func() error {
	return func() error {
		for _, fn := range fns {
			if err := fn(); err != nil {
				return err
			}
		}
		return nil
	}
}
