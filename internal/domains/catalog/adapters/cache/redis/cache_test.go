package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type listing struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client), mr
}

func TestCache_RoundTripAndMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	var out []listing
	ok, err := cache.Get(ctx, "dish_1", &out)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Set(ctx, "dish_1", []listing{{ID: 1, Name: "Noodles"}}, time.Minute))
	ok, err = cache.Get(ctx, "dish_1", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []listing{{ID: 1, Name: "Noodles"}}, out)

	mr.FastForward(2 * time.Minute)
	ok, err = cache.Get(ctx, "dish_1", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_DeletePatternOnlyTouchesMatches(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	for i := 1; i <= 250; i++ {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("dish_%d", i), []listing{}, 0))
	}
	require.NoError(t, cache.Set(ctx, "setmeal_1", []listing{}, 0))

	removed, err := cache.DeletePattern(ctx, "dish_*")
	require.NoError(t, err)
	require.Equal(t, int64(250), removed)
	for i := 1; i <= 250; i++ {
		require.False(t, mr.Exists(fmt.Sprintf("dish_%d", i)))
	}
	require.True(t, mr.Exists("setmeal_1"))
}
