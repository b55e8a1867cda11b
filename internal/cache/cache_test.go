package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(mr.Addr(), "", 0), mr
}

func TestClient_SetGetDelete(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user:1", []byte(`{"id":1}`), time.Minute))

	got, err := c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":1}`), got)

	require.NoError(t, c.Delete(ctx, "user:1"))

	got, err = c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Nil(t, got, "deleted key reads as a miss")
}

func TestClient_Incr(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := c.Incr(ctx, "ratelimit:user:10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	ttl := mr.TTL("ratelimit:user:10.0.0.1")
	assert.Greater(t, ttl, time.Duration(0), "counter must carry an expiry")
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestClient_Incr_RestoresLostExpiry(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	// A counter that exists without a TTL must not block forever.
	require.NoError(t, mr.Set("ratelimit:user:10.0.0.1", "3"))
	require.Equal(t, time.Duration(0), mr.TTL("ratelimit:user:10.0.0.1"))

	n, err := c.Incr(ctx, "ratelimit:user:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Greater(t, mr.TTL("ratelimit:user:10.0.0.1"), time.Duration(0))
}

func TestClient_Incr_KeepsWindow(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	_, err := c.Incr(ctx, "ratelimit:user:10.0.0.1", time.Minute)
	require.NoError(t, err)

	mr.FastForward(30 * time.Second)

	// Later hits in the same window must not push the expiry back out.
	_, err = c.Incr(ctx, "ratelimit:user:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.LessOrEqual(t, mr.TTL("ratelimit:user:10.0.0.1"), 30*time.Second)
}

func TestClient_FailsOpen(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	mr.Close()

	n, err := c.Incr(ctx, "ratelimit:user:10.0.0.1", time.Minute)
	assert.NoError(t, err)
	assert.Zero(t, n)

	got, err := c.Get(ctx, "user:1")
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, c.Set(ctx, "user:1", []byte("x"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "user:1"))
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	ctx := context.Background()

	got, err := c.Get(ctx, "user:1")
	assert.NoError(t, err)
	assert.Nil(t, got)

	n, err := c.Incr(ctx, "ratelimit:user:10.0.0.1", time.Minute)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
