package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisclient "github.com/angelmondragon/storefront/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryCooldownIsPerEmail(t *testing.T) {
	t.Parallel()

	c := NewMemoryCooldown(time.Minute)
	ctx := context.Background()

	ok, _, err := c.Acquire(ctx, "A@b.ru")
	require.NoError(t, err)
	require.True(t, ok)

	ok, left, err := c.Acquire(ctx, " a@b.ru")
	require.NoError(t, err)
	require.False(t, ok)
	require.Greater(t, left, time.Duration(0))

	ok, _, err = c.Acquire(ctx, "other@b.ru")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryCooldownDisabled(t *testing.T) {
	t.Parallel()

	c := NewMemoryCooldown(0)
	for i := 0; i < 3; i++ {
		ok, _, err := c.Acquire(context.Background(), "a@b.ru")
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestRedisCooldown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redisclient.NewFromRedis(redislib.NewClient(&redislib.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisCooldown(client, time.Minute)
	ctx := context.Background()

	ok, _, err := c.Acquire(ctx, "a@b.ru")
	require.NoError(t, err)
	require.True(t, ok)

	ok, left, err := c.Acquire(ctx, "a@b.ru")
	require.NoError(t, err)
	require.False(t, ok)
	require.LessOrEqual(t, left, time.Minute)
	require.Greater(t, left, time.Duration(0))

	mr.FastForward(time.Minute + time.Second)
	ok, _, err = c.Acquire(ctx, "a@b.ru")
	require.NoError(t, err)
	require.True(t, ok)
}
