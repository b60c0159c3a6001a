package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache_ExpiresAndEvicts(t *testing.T) {
	cache := NewCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "dish_1", []string{"a"}, time.Minute))
	require.NoError(t, cache.Set(ctx, "dish_2", []string{"b"}, 0))
	require.NoError(t, cache.Set(ctx, "setmeal_1", []string{"c"}, 0))

	var out []string
	ok, err := cache.Get(ctx, "dish_1", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"a"}, out)

	now = now.Add(2 * time.Minute)
	ok, err = cache.Get(ctx, "dish_1", &out)
	require.NoError(t, err)
	require.False(t, ok)

	removed, err := cache.DeletePattern(ctx, "dish_*")
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	ok, err = cache.Get(ctx, "setmeal_1", &out)
	require.NoError(t, err)
	require.True(t, ok)
}
