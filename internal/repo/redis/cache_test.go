package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"neoadmin/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "user_detail:7", BuildKey("user_detail", []interface{}{7}, nil))
	assert.Equal(t, "user:1:list:page=2:size=10",
		BuildKey("user", []interface{}{1, "list"}, map[string]interface{}{"size": 10, "page": 2}))
	assert.Equal(t, "plain", BuildKey("plain", nil, nil))
	assert.Equal(t, "user_detail:7", UserDetailKey(7))
}

func TestCacheManagerNilClientDisabled(t *testing.T) {
	m := NewCacheManager(nil, &config.CacheConfig{TTL: time.Minute, Prefix: "neoadmin"})
	assert.False(t, m.Enabled())
	assertDegraded(t, m)
}

func TestCacheManagerUnreachableDisabled(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	m := NewCacheManager(client, &config.CacheConfig{})
	assert.False(t, m.Enabled())
	assert.Equal(t, defaultTTL, m.ttl)
	assertDegraded(t, m)
}

func assertDegraded(t *testing.T, m *CacheManager) {
	t.Helper()
	ctx := context.Background()

	var dest map[string]string
	hit, err := m.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	assert.NoError(t, m.Set(ctx, "k", map[string]string{"a": "b"}, 0))
	assert.NoError(t, m.Delete(ctx, "k"))
	assert.NoError(t, m.DeletePattern(ctx, "k:*"))
	assert.NoError(t, m.ClearUserCache(ctx, 1))
	assert.NoError(t, m.ClearRoleCache(ctx, 1))
	assert.NoError(t, m.ClearPermissionCache(ctx))

	// 禁用时每次都走 loader
	calls := 0
	loader := func(context.Context) error {
		calls++
		dest = map[string]string{"a": "b"}
		return nil
	}
	require.NoError(t, m.GetOrLoad(ctx, "k", &dest, 0, loader))
	require.NoError(t, m.GetOrLoad(ctx, "k", &dest, 0, loader))
	assert.Equal(t, 2, calls)
	assert.Equal(t, "b", dest["a"])

	boom := errors.New("boom")
	err = m.GetOrLoad(ctx, "k", &dest, 0, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestCacheManagerFullKey(t *testing.T) {
	m := NewCacheManager(nil, &config.CacheConfig{Prefix: "neoadmin"})
	assert.Equal(t, "neoadmin:userinfo:1", m.fullKey("userinfo:1"))

	bare := NewCacheManager(nil, nil)
	assert.Equal(t, "userinfo:1", bare.fullKey("userinfo:1"))
	assert.Equal(t, defaultTTL, bare.ttl)
}
