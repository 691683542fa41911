// Package testutils provides shared test helpers: an in-memory redis and
// the sample card data set.
package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/xwing-api/internal/redis"
)

// CreateTestRedis creates an in-memory Redis client for testing. The
// miniredis server is returned so tests can inspect keys or move its clock
// forward to expire entries.
func CreateTestRedis(t *testing.T) (redis.Client, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to create miniredis")

	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err, "failed to create redis client")

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}
