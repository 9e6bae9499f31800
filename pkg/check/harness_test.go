package check

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestHarness() *Harness {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(WithLogger(logger))
}

func healthyContainer(name string) Container {
	return Container{
		Name:    name,
		Kind:    "Cache",
		Host:    "localhost",
		Port:    6379,
		Image:   "redis:7-alpine",
		Running: true,
		Healthy: true,
	}
}

func resultFor(t *testing.T, h *Harness, subject string) Result {
	t.Helper()
	for _, r := range h.Results() {
		if r.Subject == subject {
			return r
		}
	}
	t.Fatalf("no result recorded for %q", subject)
	return Result{}
}

func TestCheckContainers_EmptyListFails(t *testing.T) {
	err := newTestHarness().CheckContainers(nil)
	if !errors.Is(err, ErrNoContainers) {
		t.Errorf("expected ErrNoContainers, got %v", err)
	}
}

func TestCheckContainers_NotRunningRegardlessOfHealthy(t *testing.T) {
	for _, healthy := range []bool{true, false} {
		t.Run(fmt.Sprintf("healthy=%v", healthy), func(t *testing.T) {
			h := newTestHarness()
			c := healthyContainer("Redis")
			c.Running = false
			c.Healthy = healthy

			err := h.CheckContainers([]Container{c})
			if !errors.Is(err, ErrNotRunning) {
				t.Errorf("expected ErrNotRunning, got %v", err)
			}
			res := resultFor(t, h, "Redis")
			if res.Healthy {
				t.Error("expected unhealthy result")
			}
			if !strings.Contains(res.Message, "not running") {
				t.Errorf("expected message to mention not running, got %q", res.Message)
			}
		})
	}
}

func TestCheckContainers_UnhealthyFails(t *testing.T) {
	h := newTestHarness()
	c := healthyContainer("Redis")
	c.Healthy = false

	err := h.CheckContainers([]Container{c})
	if !errors.Is(err, ErrUnhealthy) {
		t.Errorf("expected ErrUnhealthy, got %v", err)
	}
	res := resultFor(t, h, "Redis")
	if !strings.Contains(res.Message, "health") {
		t.Errorf("expected message to mention health, got %q", res.Message)
	}
}

func TestCheckContainers_HealthyDiagnostics(t *testing.T) {
	h := newTestHarness()

	if err := h.CheckContainers([]Container{healthyContainer("Redis")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := resultFor(t, h, "Redis")
	if !res.Healthy {
		t.Fatal("expected healthy result")
	}
	for _, want := range []string{"localhost", "6379", "redis:7-alpine"} {
		if !strings.Contains(res.Message, want) {
			t.Errorf("expected message to contain %q, got %q", want, res.Message)
		}
	}
	if res.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestCheckContainers_EvaluatesAllDescriptors(t *testing.T) {
	h := newTestHarness()
	stopped := healthyContainer("Kafka")
	stopped.Running = false
	sick := healthyContainer("Cassandra")
	sick.Healthy = false

	err := h.CheckContainers([]Container{stopped, healthyContainer("Redis"), sick})
	if err == nil {
		t.Fatal("expected aggregate error")
	}
	for _, name := range []string{"Kafka", "Cassandra"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected error to name %q, got %v", name, err)
		}
	}
	if len(h.Results()) != 3 {
		t.Errorf("expected all 3 descriptors recorded, got %d", len(h.Results()))
	}
	if !resultFor(t, h, "Redis").Healthy {
		t.Error("expected healthy result for Redis despite sibling failures")
	}
}

func TestCheckServices_EmptyListIsNoOp(t *testing.T) {
	if err := newTestHarness().CheckServices(nil); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestCheckServices_OptionalFailureDoesNotFail(t *testing.T) {
	h := newTestHarness()
	svc := NewService("B", "Cache", "redis://example:6379", func() bool { return false })
	svc.Required = false

	if err := h.CheckServices([]Service{svc}); err != nil {
		t.Errorf("expected nil error for optional service, got %v", err)
	}
	res := resultFor(t, h, "B")
	if res.Healthy {
		t.Error("expected unhealthy result for B")
	}
	if res.Message == "" {
		t.Error("expected non-empty failure message")
	}
}

func TestCheckServices_RequiredFailureFails(t *testing.T) {
	h := newTestHarness()
	svc := NewService("A", "REST API", "http://example/health", func() bool { return false })

	err := h.CheckServices([]Service{svc})
	if !errors.Is(err, ErrRequiredUnreachable) {
		t.Fatalf("expected ErrRequiredUnreachable, got %v", err)
	}
	if !strings.Contains(err.Error(), "A") {
		t.Errorf("expected error to name the service, got %v", err)
	}
}

func TestCheckServices_ReachableService(t *testing.T) {
	h := newTestHarness()
	svc := NewService("A", "REST API", "http://example/health", func() bool { return true })

	if err := h.CheckServices([]Service{svc}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := resultFor(t, h, "A")
	if !res.Healthy {
		t.Error("expected healthy result")
	}
	if !strings.Contains(res.Message, "http://example/health") {
		t.Errorf("expected diagnostics to contain the url, got %q", res.Message)
	}
}

func TestCheckServices_NilProbe(t *testing.T) {
	h := newTestHarness()
	svc := NewService("A", "REST API", "http://example", nil)

	err := h.CheckServices([]Service{svc})
	if !errors.Is(err, ErrRequiredUnreachable) {
		t.Errorf("expected ErrRequiredUnreachable, got %v", err)
	}
	if got := resultFor(t, h, "A").Message; !strings.Contains(got, "no probe configured") {
		t.Errorf("unexpected message %q", got)
	}
}

func TestCheckServices_PanickingProbeIsFailure(t *testing.T) {
	h := newTestHarness()
	svc := NewService("A", "Cache", "redis://example", func() bool { panic("boom") })
	svc.Required = false

	if err := h.CheckServices([]Service{svc}); err != nil {
		t.Errorf("expected panic to be absorbed for optional service, got %v", err)
	}
	res := resultFor(t, h, "A")
	if res.Healthy {
		t.Error("expected unhealthy result")
	}
	if !strings.Contains(res.Message, "boom") {
		t.Errorf("expected message to carry the panic value, got %q", res.Message)
	}
}

func TestCheckEndToEnd_Success(t *testing.T) {
	h := newTestHarness()
	if err := h.CheckEndToEnd(func() error { return nil }); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !resultFor(t, h, "end-to-end").Healthy {
		t.Error("expected healthy end-to-end result")
	}
}

func TestCheckEndToEnd_FailurePropagatesMessage(t *testing.T) {
	h := newTestHarness()
	err := h.CheckEndToEnd(func() error { return errors.New("cache write rejected") })
	if !errors.Is(err, ErrEndToEnd) {
		t.Fatalf("expected ErrEndToEnd, got %v", err)
	}
	if !strings.Contains(err.Error(), "cache write rejected") {
		t.Errorf("expected underlying cause in error, got %v", err)
	}
	if got := resultFor(t, h, "end-to-end").Message; got != "cache write rejected" {
		t.Errorf("expected recorded message %q, got %q", "cache write rejected", got)
	}
}

func TestCheckEndToEnd_NilCallback(t *testing.T) {
	if err := newTestHarness().CheckEndToEnd(nil); !errors.Is(err, ErrEndToEnd) {
		t.Errorf("expected ErrEndToEnd, got %v", err)
	}
}

func TestResults_OrderAndOverwrite(t *testing.T) {
	h := newTestHarness()

	if err := h.CheckContainers([]Container{healthyContainer("Redis"), healthyContainer("Kafka")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A later result for an existing subject overwrites in place.
	svc := NewService("Redis", "Cache", "redis://example:6379", func() bool { return false })
	svc.Required = false
	if err := h.CheckServices([]Service{svc}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := h.Results()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Subject != "Redis" || results[1].Subject != "Kafka" {
		t.Errorf("expected order [Redis Kafka], got [%s %s]", results[0].Subject, results[1].Subject)
	}
	if results[0].Healthy {
		t.Error("expected Redis entry to reflect the later, unhealthy result")
	}
}

func TestHarness_AccumulatesAcrossOperations(t *testing.T) {
	h := newTestHarness()

	if err := h.CheckContainers([]Container{healthyContainer("Redis")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.CheckServices([]Service{NewService("API", "REST API", "http://example", func() bool { return true })}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.CheckEndToEnd(func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := h.Results()
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []string{"Redis", "API", "end-to-end"}
	for i, name := range want {
		if results[i].Subject != name {
			t.Errorf("expected subject %q at %d, got %q", name, i, results[i].Subject)
		}
	}
}
