package cache

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Requires a running Redis; set REDIS_TEST_ADDR to enable.
func newRedisStore(t *testing.T) *Redis {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping redis integration test")
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err())
	return NewRedis(client)
}

func TestRedisGetSet(t *testing.T) {
	r := newRedisStore(t)
	ctx := context.Background()
	key := "lessonproxy-test:" + t.Name()

	_, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok, "expected miss before Set")

	require.NoError(t, r.Set(ctx, key, []byte(`{"name":"01"}`), time.Minute))

	val, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"name":"01"}`, string(val))
}

func TestRedisExpiry(t *testing.T) {
	r := newRedisStore(t)
	ctx := context.Background()
	key := "lessonproxy-test:" + t.Name()

	require.NoError(t, r.Set(ctx, key, []byte("v"), 50*time.Millisecond))
	time.Sleep(100 * time.Millisecond)

	_, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok, "expected miss after TTL elapsed")
}
