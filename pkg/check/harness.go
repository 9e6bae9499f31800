// Package check defines the descriptor and result types for smoke
// checks and the Harness that orchestrates them.
//
// A Harness runs three independent check operations (container health,
// external service connectivity, and an end-to-end workflow) against
// descriptors supplied by the caller, accumulating one Result per
// subject in supply order. The descriptors themselves come from an
// application adapter (see pkg/source); the harness never manages
// container lifecycles or owns business logic.
//
// Each operation evaluates every descriptor it is given, records a
// Result for each, and returns an aggregate error describing all
// failing required checks. Probe-level failures never surface as
// errors; they become unhealthy Results.
package check

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jvandyke/smokecheck/pkg/probe"
	"github.com/sirupsen/logrus"
)

// Harness orchestrates descriptor validation and accumulates results.
// The three check operations may be run standalone or in any order;
// they share one result store, so a full run's report reflects all of
// them. The store is mutex-guarded, making concurrent operations on
// one Harness safe.
type Harness struct {
	mu      sync.RWMutex
	order   []string
	results map[string]Result
	log     *logrus.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger used for check banners and summaries.
func WithLogger(log *logrus.Logger) Option {
	return func(h *Harness) {
		h.log = log
	}
}

// New creates a Harness with an empty result store.
func New(opts ...Option) *Harness {
	h := &Harness{
		results: make(map[string]Result),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CheckContainers validates that every container descriptor is running
// and healthy. All containers are required: the operation fails if the
// list is empty or if any descriptor fails. Every descriptor is
// evaluated and recorded, and the returned error aggregates all
// failures.
func (h *Harness) CheckContainers(containers []Container) error {
	h.log.Info("=== Starting Container Health Check ===")
	start := time.Now()

	if len(containers) == 0 {
		return ErrNoContainers
	}

	var errs []error
	for _, c := range containers {
		result, err := h.validateContainer(c)
		h.record(result)
		if err != nil {
			errs = append(errs, err)
		}
	}

	h.log.Infof("=== Container Health Check Completed in %dms ===", time.Since(start).Milliseconds())
	h.logSummary()
	return errors.Join(errs...)
}

// CheckServices validates connectivity to every external service
// descriptor. An empty list is a valid no-op. Unreachable required
// services aggregate into the returned error; unreachable optional
// services are recorded as unhealthy and warned about only.
func (h *Harness) CheckServices(services []Service) error {
	h.log.Info("=== Starting External Services Connectivity Check ===")
	start := time.Now()

	if len(services) == 0 {
		h.log.Info("no external services configured for connectivity check")
		return nil
	}

	var errs []error
	for _, s := range services {
		result := h.validateService(s)
		h.record(result)
		if result.Healthy {
			continue
		}
		if s.Required {
			errs = append(errs, fmt.Errorf("external service %q: %s: %w", s.Name, result.Message, ErrRequiredUnreachable))
		} else {
			h.log.Warnf("optional external service %q connectivity failed: %s", s.Name, result.Message)
		}
	}

	h.log.Infof("=== External Services Connectivity Check Completed in %dms ===", time.Since(start).Milliseconds())
	h.logSummary()
	return errors.Join(errs...)
}

// CheckEndToEnd invokes a caller-supplied workflow exercising the real
// application (e.g. a cache write+read or a message publish). Any error
// from the callback fails the operation with that error's message.
func (h *Harness) CheckEndToEnd(fn func() error) error {
	h.log.Info("=== Starting End-to-End Functionality Check ===")
	start := time.Now()

	if fn == nil {
		return fmt.Errorf("no callback provided: %w", ErrEndToEnd)
	}

	err := fn()
	elapsed := time.Since(start)
	if err != nil {
		h.record(Fail("end-to-end", err.Error(), elapsed))
		h.log.Errorf("end-to-end functionality check failed: %v", err)
		h.log.Infof("=== End-to-End Functionality Check Completed in %dms ===", elapsed.Milliseconds())
		return fmt.Errorf("%w: %v", ErrEndToEnd, err)
	}

	h.record(Pass("end-to-end", "workflow completed", elapsed))
	h.log.Info("end-to-end functionality check passed")
	h.log.Infof("=== End-to-End Functionality Check Completed in %dms ===", elapsed.Milliseconds())
	return nil
}

// Results returns a snapshot of all accumulated results in the order
// their subjects were first recorded. A later result for an existing
// subject overwrites the earlier one in place.
func (h *Harness) Results() []Result {
	h.mu.RLock()
	defer h.mu.RUnlock()

	results := make([]Result, 0, len(h.order))
	for _, name := range h.order {
		results = append(results, h.results[name])
	}
	return results
}

// validateContainer checks a single container descriptor. It returns
// the Result to record and a non-nil error when the descriptor fails.
func (h *Harness) validateContainer(c Container) (Result, error) {
	start := time.Now()
	h.log.Infof("checking container: %s (%s)", c.Name, c.Kind)

	if !c.Running {
		return Fail(c.Name, "container is not running", time.Since(start)),
			fmt.Errorf("container %q: %w", c.Name, ErrNotRunning)
	}
	if !c.Healthy {
		return Fail(c.Name, "container health check failed", time.Since(start)),
			fmt.Errorf("container %q: %w", c.Name, ErrUnhealthy)
	}

	diagnostics := fmt.Sprintf("host=%s port=%d image=%s", c.Host, c.Port, c.Image)
	h.log.Infof("container %q is healthy: %s", c.Name, diagnostics)
	return Pass(c.Name, diagnostics, time.Since(start)), nil
}

// validateService runs a single service probe and converts the outcome
// into a Result.
func (h *Harness) validateService(s Service) Result {
	h.log.Infof("checking external service: %s (%s)", s.Name, s.URL)

	if s.Probe == nil {
		return Fail(s.Name, "no probe configured", 0)
	}

	ok, elapsed, err := probe.Measure(s.Probe)
	if !ok {
		message := "failed to connect to external service"
		if err != nil {
			message = fmt.Sprintf("%s: %v", message, err)
		}
		return Fail(s.Name, message, elapsed)
	}

	diagnostics := fmt.Sprintf("url=%s kind=%s", s.URL, s.Kind)
	h.log.Infof("external service %q is accessible: %s", s.Name, diagnostics)
	return Pass(s.Name, diagnostics, elapsed)
}

// record stores a result keyed by subject, preserving first-seen order.
func (h *Harness) record(r Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, seen := h.results[r.Subject]; !seen {
		h.order = append(h.order, r.Subject)
	}
	h.results[r.Subject] = r
}

// logSummary logs totals and a per-subject status line for everything
// recorded so far.
func (h *Harness) logSummary() {
	results := h.Results()

	healthy := 0
	for _, r := range results {
		if r.Healthy {
			healthy++
		}
	}

	h.log.Info("=== Health Check Summary ===")
	h.log.Infof("total checks: %d", len(results))
	h.log.Infof("healthy: %d", healthy)
	h.log.Infof("unhealthy: %d", len(results)-healthy)
	for _, r := range results {
		status := "HEALTHY"
		if !r.Healthy {
			status = "UNHEALTHY"
		}
		h.log.Infof("  - %s: %s (%dms)", r.Subject, status, r.Elapsed.Milliseconds())
	}
}
