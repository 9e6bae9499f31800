// Package source supplies check descriptors from the outside world:
// a YAML configuration file, the live Docker daemon, and environment
// variables. It is the application adapter sitting between real
// infrastructure and the harness in pkg/check, which only ever sees
// already-resolved descriptor values.
package source

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jvandyke/smokecheck/pkg/check"
	"github.com/jvandyke/smokecheck/pkg/probe"
)

// Config describes what a smoke run should validate.
type Config struct {
	// Application names the system under test in reports.
	Application string `yaml:"application"`

	// Environment names the deployment environment in reports.
	Environment string `yaml:"environment"`

	// Containers lists the infrastructure containers expected to be
	// running.
	Containers []ContainerSpec `yaml:"containers"`

	// Services lists external services to probe for connectivity.
	Services []ServiceSpec `yaml:"services"`
}

// ContainerSpec identifies one expected container.
type ContainerSpec struct {
	// Name is the descriptor name used in results.
	Name string `yaml:"name"`

	// Kind is the dependency category (cache, messaging, database, …).
	Kind string `yaml:"kind"`

	// Container is the live container name to match; defaults to Name
	// lowercased.
	Container string `yaml:"container"`

	// Port is the internal port whose external mapping is reported.
	Port int `yaml:"port"`
}

// ServiceSpec identifies one external service.
type ServiceSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	URL  string `yaml:"url"`

	// Required defaults to true when omitted, so unspecified services
	// fail safe.
	Required *bool `yaml:"required"`

	// Probe selects and configures the reachability probe by kind
	// ("tcp", "http", "dns"). When omitted, a TCP probe is derived
	// from URL.
	Probe map[string]any `yaml:"probe"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	for i, s := range cfg.Services {
		if s.Name == "" {
			return nil, fmt.Errorf("config %s: service at index %d missing name", path, i)
		}
	}
	for i, c := range cfg.Containers {
		if c.Name == "" {
			return nil, fmt.Errorf("config %s: container at index %d missing name", path, i)
		}
	}
	return &cfg, nil
}

// ExternalServices builds service descriptors from the config, using
// reg to construct configured probes.
func (c *Config) ExternalServices(reg *probe.Registry) ([]check.Service, error) {
	services := make([]check.Service, 0, len(c.Services))
	for _, spec := range c.Services {
		p, err := buildProbe(spec, reg)
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", spec.Name, err)
		}
		svc := check.NewService(spec.Name, spec.Kind, spec.URL, p)
		if spec.Required != nil {
			svc.Required = *spec.Required
		}
		services = append(services, svc)
	}
	return services, nil
}

// buildProbe constructs the probe for a service spec, deriving a TCP
// probe from the URL when no probe block is configured.
func buildProbe(spec ServiceSpec, reg *probe.Registry) (probe.Func, error) {
	if len(spec.Probe) > 0 {
		kind, ok := spec.Probe["kind"].(string)
		if !ok || kind == "" {
			return nil, fmt.Errorf("probe block missing kind")
		}
		config := make(map[string]any, len(spec.Probe))
		for k, v := range spec.Probe {
			if k != "kind" {
				config[k] = v
			}
		}
		return reg.Build(kind, config)
	}

	host, port, err := HostPort(spec.URL)
	if err != nil {
		return nil, fmt.Errorf("cannot derive tcp probe from url %q: %w", spec.URL, err)
	}
	return func() bool { return probe.TCP(host, port, probe.DefaultTimeout) }, nil
}

// HostPort extracts a host and port from a raw address, accepting both
// "host:port" and "scheme://host:port" forms. A missing port falls
// back to a well-known default for the scheme (redis 6379, http 80,
// https 443).
func HostPort(raw string) (string, int, error) {
	if raw == "" {
		return "", 0, fmt.Errorf("empty address")
	}

	hostport := raw
	scheme := ""
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", 0, fmt.Errorf("parse %q: %w", raw, err)
		}
		scheme = u.Scheme
		hostport = u.Host
	}

	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		// No explicit port; fall back to the scheme default.
		host = hostport
		switch scheme {
		case "redis":
			return host, 6379, nil
		case "http":
			return host, 80, nil
		case "https":
			return host, 443, nil
		}
		return "", 0, fmt.Errorf("no port in %q", raw)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", raw, err)
	}
	return host, port, nil
}
