package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/pkg/redis"
)

func TestConnect_BadURL(t *testing.T) {
	t.Parallel()

	_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "not-a-url"})
	assert.ErrorIs(t, err, redis.ErrParseURL)
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	cfg := redis.Config{
		ConnectionURL: "redis://127.0.0.1:1",
		RetryAttempts: 1,
		RetryInterval: time.Millisecond,
		DialTimeout:   10 * time.Millisecond,
	}
	_, err := redis.Connect(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, redis.ErrConnect)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	err := redis.Healthcheck(nil)(context.Background())
	assert.ErrorIs(t, err, redis.ErrHealthcheckFailed)
}
