package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-shop/pkg/cache"
)

type item struct {
	Name string `json:"name"`
}

func TestMemoryCache_GetSetForget(t *testing.T) {
	ctx := context.Background()
	c := cache.New(cache.NewMemoryStore())

	var got item
	assert.False(t, c.Get(ctx, "k", &got))

	require.NoError(t, c.Set(ctx, "k", item{Name: "shirt"}, time.Minute))
	assert.True(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "shirt", got.Name)

	c.Forget(ctx, "k")
	assert.False(t, c.Get(ctx, "k", &got))
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := cache.NewMemoryStore().WithClock(func() time.Time { return now })
	c := cache.New(store)

	require.NoError(t, c.Set(ctx, "k", 1, time.Second))
	var n int
	assert.True(t, c.Get(ctx, "k", &n))

	now = now.Add(2 * time.Second)
	assert.False(t, c.Get(ctx, "k", &n))
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	c := cache.New(cache.NewMemoryStore())
	calls := 0
	load := func() ([]item, error) {
		calls++
		return []item{{Name: "a"}}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := cache.Remember(ctx, c, "list", time.Minute, load)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, 1, calls)

	_, err := cache.Remember(ctx, c, "broken", time.Minute, func() (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)
}

func TestNopCache(t *testing.T) {
	ctx := context.Background()
	var c *cache.Cache
	assert.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	var n int
	assert.False(t, c.Get(ctx, "k", &n))
	c.Forget(ctx, "k")

	assert.False(t, cache.Nop().Get(ctx, "k", &n))
}
