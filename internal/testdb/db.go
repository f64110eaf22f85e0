// Package testdb starts throwaway backing stores for integration tests.
package testdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/pageza/mealwise/config"
	"github.com/pageza/mealwise/internal/database"
)

// TestRedis wraps a redis container and a client connected to it
type TestRedis struct {
	Client    *redis.Client
	Config    *config.Config
	Container testcontainers.Container
}

// Close cleans up the client and the container
func (tr *TestRedis) Close() error {
	if tr.Client != nil {
		_ = tr.Client.Close()
	}
	if tr.Container != nil {
		return tr.Container.Terminate(context.Background())
	}
	return nil
}

// SetupTestRedis starts redis in a container and connects to it the way the server does.
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Ready to accept connections"),
			wait.ForListeningPort("6379/tcp"),
		).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	// Get container host and port
	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	cfg := &config.Config{
		Environment:     config.Test,
		RedisURL:        fmt.Sprintf("redis://%s:%s/0", host, port.Port()),
		RateLimit:       3,
		RateLimitWindow: time.Minute,
	}

	client, err := database.NewRedisClient(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	testRedis := &TestRedis{
		Client:    client,
		Config:    cfg,
		Container: container,
	}

	// Register cleanup
	t.Cleanup(func() {
		if err := testRedis.Close(); err != nil {
			t.Logf("Error cleaning up test redis: %v", err)
		}
	})

	return testRedis
}
