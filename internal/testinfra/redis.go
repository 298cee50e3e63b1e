// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultRedisImage matches the production cache image.
	DefaultRedisImage = "redis:7-alpine"

	// DefaultRedisPort is the container-side Redis port.
	DefaultRedisPort = "6379"
)

// RedisContainer is a running Redis for tests.
type RedisContainer struct {
	testcontainers.Container
	// Addr is host:port reachable from the test process.
	Addr string
}

// RedisOption configures the container.
type RedisOption func(*redisConfig)

type redisConfig struct {
	image        string
	startTimeout time.Duration
}

// WithRedisImage sets a custom Redis image.
func WithRedisImage(image string) RedisOption {
	return func(c *redisConfig) {
		c.image = image
	}
}

// WithRedisStartTimeout sets how long to wait for Redis to accept connections.
func WithRedisStartTimeout(timeout time.Duration) RedisOption {
	return func(c *redisConfig) {
		c.startTimeout = timeout
	}
}

// NewRedisContainer starts Redis with persistence disabled.
func NewRedisContainer(ctx context.Context, opts ...RedisOption) (*RedisContainer, error) {
	cfg := &redisConfig{
		image:        DefaultRedisImage,
		startTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultRedisPort + "/tcp"},
		Cmd:          []string{"redis-server", "--save", "", "--appendonly", "no"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultRedisPort+"/tcp"),
			wait.ForLog("Ready to accept connections"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, DefaultRedisPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &RedisContainer{
		Container: container,
		Addr:      fmt.Sprintf("%s:%s", host, port.Port()),
	}, nil
}
