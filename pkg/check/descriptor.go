package check

import (
	"github.com/jvandyke/smokecheck/pkg/probe"
)

// Container describes one infrastructure dependency expected to be
// running, as observed at a single point in time. Values are built
// fresh per harness invocation from live infrastructure state and are
// not mutated afterward.
type Container struct {
	// Name uniquely identifies the container in results (e.g. "Redis").
	Name string

	// Kind is the dependency category (e.g. "Cache", "Messaging",
	// "Database").
	Kind string

	// Host is the address the container is reachable on.
	Host string

	// Port is the externally mapped port.
	Port int

	// Image is the version-tagged image reference.
	Image string

	// Running reports whether the container process is up. A container
	// that is not running always fails its check regardless of Healthy.
	Running bool

	// Healthy reports the container's own health probe status.
	Healthy bool
}

// Service describes an external (non-container) service to validate
// connectivity against.
type Service struct {
	// Name uniquely identifies the service in results.
	Name string

	// Kind is the service category (e.g. "Cache", "REST API").
	Kind string

	// URL is the service endpoint, used for diagnostics.
	URL string

	// Required controls failure semantics: a required service must be
	// reachable for the connectivity check to succeed, while an
	// unreachable optional service is recorded and warned about only.
	Required bool

	// Probe tests reachability. It must bound all network I/O with
	// explicit timeouts.
	Probe probe.Func
}

// NewService builds a Service with Required set to true. Unreachable
// services fail the connectivity check unless the caller explicitly
// opts a descriptor out by clearing Required.
func NewService(name, kind, url string, p probe.Func) Service {
	return Service{
		Name:     name,
		Kind:     kind,
		URL:      url,
		Required: true,
		Probe:    p,
	}
}
