package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLimiter(client, limit, window), mr
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "login:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}

	ok, err := l.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	// other keys have their own window
	ok, err = l.Allow(ctx, "login:5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_WindowExpires(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "register:ip")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, time.Minute, mr.TTL("ratelimit:register:ip"))

	ok, err = l.Allow(ctx, "register:ip")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(time.Minute + time.Second)

	ok, err = l.Allow(ctx, "register:ip")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_RepairsCounterWithoutExpiry(t *testing.T) {
	l, mr := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()

	// a counter past the limit that never received its expiry
	require.NoError(t, mr.Set("ratelimit:login:ip", "5"))
	assert.Zero(t, mr.TTL("ratelimit:login:ip"))

	ok, err := l.Allow(ctx, "login:ip")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:login:ip"))

	mr.FastForward(time.Minute + time.Second)

	ok, err = l.Allow(ctx, "login:ip")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_LaterRequestsKeepWindowStart(t *testing.T) {
	l, mr := newTestLimiter(t, 5, time.Minute)
	ctx := context.Background()

	_, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	mr.FastForward(40 * time.Second)

	_, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, mr.TTL("ratelimit:k"))
}

func TestLimiter_RedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "k")
	assert.Error(t, err)
}
