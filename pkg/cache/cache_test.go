package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/pkg/cache"
)

func TestMemory_SetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := cache.NewMemory[string](0)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestMemory_Miss(t *testing.T) {
	t.Parallel()
	c := cache.NewMemory[string](0)

	_, err := c.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := cache.NewMemory[int](0)

	require.NoError(t, c.Set(ctx, "k", 1, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_DefaultTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := cache.NewMemory[int](time.Millisecond)

	require.NoError(t, c.Set(ctx, "k", 1, 0))
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_NeverExpires(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := cache.NewMemory[int](time.Millisecond)

	require.NoError(t, c.Set(ctx, "k", 1, -1))
	time.Sleep(5 * time.Millisecond)

	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestMemory_DeleteAndClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := cache.NewMemory[int](0)

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))

	require.NoError(t, c.Delete(ctx, "a"))
	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Clear(ctx))
	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestGetOrLoad_LoadsOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := cache.NewMemory[string](0)

	var calls atomic.Int32
	load := func(context.Context) (string, time.Duration, error) {
		calls.Add(1)
		return "loaded", 0, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cache.GetOrLoad(ctx, c, "k", load)
			assert.NoError(t, err)
			assert.Equal(t, "loaded", v)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
}

func TestGetOrLoad_ErrorNotCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := cache.NewMemory[string](0)

	boom := errors.New("boom")
	_, err := cache.GetOrLoad(ctx, c, "k", func(context.Context) (string, time.Duration, error) {
		return "", 0, boom
	})
	assert.ErrorIs(t, err, boom)

	v, err := cache.GetOrLoad(ctx, c, "k", func(context.Context) (string, time.Duration, error) {
		return "recovered", 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
}
