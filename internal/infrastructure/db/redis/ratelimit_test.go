package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
)

func TestLimiterStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := LimiterStore(client, "test")
	require.NoError(t, err)
	lim := limiter.New(store, limiter.Rate{Period: time.Hour, Limit: 2})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		res, err := lim.Get(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, res.Reached, "request %d", i+1)
	}
	res, err := lim.Get(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Reached)
	assert.EqualValues(t, 0, res.Remaining)

	other, err := lim.Get(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, other.Reached)
	assert.NotEmpty(t, mr.Keys())
}

func TestLimiterStore_Memory(t *testing.T) {
	store, err := LimiterStore(nil, "")
	require.NoError(t, err)
	lim := limiter.New(store, limiter.Rate{Period: time.Hour, Limit: 1})

	ctx := context.Background()
	first, err := lim.Get(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, first.Reached)

	second, err := lim.Get(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, second.Reached)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	addr := mr.Addr()
	mr.Close()
	_, err = Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
