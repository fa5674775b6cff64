package cachemanager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadThroughCache_LoadsOnce(t *testing.T) {
	ctx := context.Background()
	calls := 0
	load := func(_ context.Context, path string) (int, error) {
		calls++
		return len(path), nil
	}
	cache := NewInMemoryCacheManager[string, int]("registry", DefaultExpiration, DefaultCleanupInterval)
	rt := NewReadThroughCache[string, int, string](cache, load, false)

	v, err := rt.Get(ctx, "k", "gl.xml", DefaultExpiration)
	require.NoError(t, err)
	require.Equal(t, 6, v)

	v, err = rt.Get(ctx, "k", "ignored-on-hit", DefaultExpiration)
	require.NoError(t, err)
	require.Equal(t, 6, v)
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	calls := 0
	load := func(_ context.Context, _ string) (int, error) {
		calls++
		return 0, errors.New("malformed")
	}
	cache := NewInMemoryCacheManager[string, int]("registry", DefaultExpiration, DefaultCleanupInterval)
	rt := NewReadThroughCache[string, int, string](cache, load, false)

	_, err := rt.Get(ctx, "k", "gl.xml", DefaultExpiration)
	require.Error(t, err)
	_, err = rt.Get(ctx, "k", "gl.xml", DefaultExpiration)
	require.Error(t, err)
	require.Equal(t, 2, calls)
	require.Zero(t, cache.Len())
}

func TestReadThroughCache_Skip(t *testing.T) {
	ctx := context.Background()
	calls := 0
	load := func(_ context.Context, _ string) (int, error) {
		calls++
		return calls, nil
	}
	cache := NewInMemoryCacheManager[string, int]("registry", DefaultExpiration, DefaultCleanupInterval)
	rt := NewReadThroughCache[string, int, string](cache, load, true)

	first, _ := rt.Get(ctx, "k", "gl.xml", DefaultExpiration)
	second, _ := rt.Get(ctx, "k", "gl.xml", DefaultExpiration)
	require.Equal(t, 1, first)
	require.Equal(t, 2, second)
	require.Zero(t, cache.Len())
}
