// Package common provides shared test infrastructure
package common

import (
	"context"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// Container is a started testcontainers instance with one mapped port.
type Container struct {
	container testcontainers.Container
	host      string
	port      string
}

// startContainer starts req and resolves the host and mapped port.
func startContainer(ctx context.Context, req testcontainers.ContainerRequest, port string) (*Container, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start %s container: %w", req.Image, err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("get %s host: %w", req.Image, err)
	}

	mappedPort, err := container.MappedPort(ctx, port)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("get %s port: %w", req.Image, err)
	}

	return &Container{container: container, host: host, port: mappedPort.Port()}, nil
}

// HostPort returns host:port of the mapped service port.
func (c *Container) HostPort() string {
	return fmt.Sprintf("%s:%s", c.host, c.port)
}

// Cleanup terminates the container. Call from TestMain if needed.
func (c *Container) Cleanup() {
	if c != nil && c.container != nil {
		c.container.Terminate(context.Background())
	}
}

func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
}
