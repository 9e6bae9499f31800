package probe

import (
	"fmt"
	"sync"
	"time"
)

// Factory is a function that creates a probe Func from a raw
// configuration map. Each probe kind registers a Factory with the
// Registry.
type Factory func(config map[string]any) (Func, error)

// Registry holds registered probe kinds and their factories.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// DefaultRegistry returns a Registry with the built-in probe kinds
// (tcp, http, dns) pre-registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Built-in registrations cannot collide on a fresh registry.
	_ = r.Register("tcp", tcpFactory)
	_ = r.Register("http", httpFactory)
	_ = r.Register("dns", dnsFactory)
	return r
}

// Register adds a probe factory under the given kind.
// Returns an error if the kind is already registered.
func (r *Registry) Register(kind string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("probe kind %q is already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

// Build instantiates a probe of the given kind using the provided
// config. Returns an error if the kind is not registered or the
// factory fails.
func (r *Registry) Build(kind string, config map[string]any) (Func, error) {
	r.mu.RLock()
	factory, exists := r.factories[kind]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown probe kind %q", kind)
	}
	return factory(config)
}

// Kinds returns the names of all registered probe kinds.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	return kinds
}

// tcpFactory creates a TCP probe from a config map.
// Required keys: "host" (string), "port" (int).
// Optional keys: "timeout" (duration string, default "5s"),
// "retries" (int), "retry_delay" (duration string, default "1s").
func tcpFactory(config map[string]any) (Func, error) {
	host, err := stringValue(config, "host", true)
	if err != nil {
		return nil, fmt.Errorf("tcp: %w", err)
	}
	port, err := intValue(config, "port", true)
	if err != nil {
		return nil, fmt.Errorf("tcp: %w", err)
	}
	timeout, err := durationValue(config, "timeout", DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("tcp: %w", err)
	}

	p := func() bool { return TCP(host, port, timeout) }
	return withConfiguredRetry(config, p, "tcp")
}

// httpFactory creates an HTTP probe from a config map.
// Required key: "url" (string).
// Optional keys: "timeout", "retries", "retry_delay" as for tcp.
func httpFactory(config map[string]any) (Func, error) {
	url, err := stringValue(config, "url", true)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	timeout, err := durationValue(config, "timeout", DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}

	p := func() bool { return HTTP(url, timeout) }
	return withConfiguredRetry(config, p, "http")
}

// dnsFactory creates a DNS resolution probe from a config map.
// Required key: "host" (string). Optional key: "server" (string,
// host:port of a specific DNS server; default is the system resolver).
func dnsFactory(config map[string]any) (Func, error) {
	host, err := stringValue(config, "host", true)
	if err != nil {
		return nil, fmt.Errorf("dns: %w", err)
	}
	server, err := stringValue(config, "server", false)
	if err != nil {
		return nil, fmt.Errorf("dns: %w", err)
	}

	if server != "" {
		return func() bool { return DNSServer(host, server) }, nil
	}
	return func() bool { return DNS(host) }, nil
}

// withConfiguredRetry wraps p in WithRetry when the config carries a
// positive "retries" count.
func withConfiguredRetry(config map[string]any, p Func, kind string) (Func, error) {
	retries, err := intValue(config, "retries", false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	if retries <= 0 {
		return p, nil
	}
	delay, err := durationValue(config, "retry_delay", DefaultRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return func() bool { return WithRetry(p, retries, delay) }, nil
}

// stringValue extracts a string config key. A missing optional key
// yields the empty string.
func stringValue(config map[string]any, key string, required bool) (string, error) {
	raw, ok := config[key]
	if !ok {
		if required {
			return "", fmt.Errorf("config missing required key %q", key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%q must be a string, got %T", key, raw)
	}
	if required && s == "" {
		return "", fmt.Errorf("%q must not be empty", key)
	}
	return s, nil
}

// intValue extracts an integer config key, accepting the numeric types
// produced by YAML and JSON decoders. A missing optional key yields 0.
func intValue(config map[string]any, key string, required bool) (int, error) {
	raw, ok := config[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("config missing required key %q", key)
		}
		return 0, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%q must be an integer, got %T", key, raw)
	}
}

// durationValue extracts a duration string config key, falling back to
// def when the key is absent.
func durationValue(config map[string]any, key string, def time.Duration) (time.Duration, error) {
	raw, ok := config[key]
	if !ok {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("%q must be a duration string, got %T", key, raw)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}
