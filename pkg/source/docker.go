package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/sirupsen/logrus"

	"github.com/jvandyke/smokecheck/pkg/check"
)

// Docker resolves container descriptors from live Docker daemon state.
// It only reads state; starting or stopping containers is the job of
// whatever provisioned them.
type Docker struct {
	cli *client.Client
}

// NewDocker creates a Docker source using the environment-configured
// daemon connection (DOCKER_HOST etc.).
func NewDocker() (*Docker, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return &Docker{cli: cli}, nil
}

// Close releases the underlying client connection.
func (d *Docker) Close() error {
	return d.cli.Close()
}

// Containers resolves each spec against the live container list,
// returning one descriptor per spec in spec order. A spec with no
// matching live container yields a descriptor with Running=false, so
// the harness reports it as a failure rather than silently skipping it.
func (d *Docker) Containers(ctx context.Context, specs []ContainerSpec) ([]check.Container, error) {
	list, err := d.cli.ContainerList(ctx, types.ContainerListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	descriptors := make([]check.Container, 0, len(specs))
	for _, spec := range specs {
		descriptors = append(descriptors, d.resolve(ctx, spec, list))
	}
	return descriptors, nil
}

// resolve maps one spec onto the live container list.
func (d *Docker) resolve(ctx context.Context, spec ContainerSpec, list []types.Container) check.Container {
	want := spec.Container
	if want == "" {
		want = strings.ToLower(spec.Name)
	}

	for _, c := range list {
		if !matchesName(c.Names, want) {
			continue
		}
		running := c.State == "running"
		return check.Container{
			Name:    spec.Name,
			Kind:    spec.Kind,
			Host:    "localhost",
			Port:    mappedPort(c.Ports, spec.Port),
			Image:   c.Image,
			Running: running,
			Healthy: running && d.healthy(ctx, c.ID),
		}
	}

	logrus.Warnf("no container named %q found for %s", want, spec.Name)
	return check.Container{
		Name: spec.Name,
		Kind: spec.Kind,
	}
}

// healthy inspects a container's health status. Containers without a
// configured healthcheck count as healthy; the running state already
// covered them.
func (d *Docker) healthy(ctx context.Context, id string) bool {
	inspect, err := d.cli.ContainerInspect(ctx, id)
	if err != nil {
		logrus.Warnf("inspect container %s: %v", id, err)
		return false
	}
	if inspect.State == nil || inspect.State.Health == nil {
		return true
	}
	return inspect.State.Health.Status == "healthy"
}

// matchesName reports whether any of the container's names equals want.
// Docker prefixes names with a slash.
func matchesName(names []string, want string) bool {
	for _, name := range names {
		if strings.TrimPrefix(name, "/") == want {
			return true
		}
	}
	return false
}

// mappedPort returns the public mapping for the given private port, the
// first public port when the private port is unspecified, or 0 when
// nothing is exposed.
func mappedPort(ports []types.Port, private int) int {
	for _, p := range ports {
		if private != 0 && int(p.PrivatePort) != private {
			continue
		}
		if p.PublicPort != 0 {
			return int(p.PublicPort)
		}
	}
	return 0
}
