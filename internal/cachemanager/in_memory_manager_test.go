package cachemanager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type registryKey string

type parsedRegistry struct {
	Path  string
	Enums int
}

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[registryKey, parsedRegistry]("registry", DefaultExpiration, DefaultCleanupInterval)
	doc := parsedRegistry{Path: "gl.xml", Enums: 42}
	cache.Set(context.Background(), "gl.xml|1|2", doc, 0)

	got, ok := cache.Get(context.Background(), "gl.xml|1|2")
	require.True(t, ok)
	require.Equal(t, doc, got)
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("registry", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "gl.xml")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("registry", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("gl.xml", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "gl.xml")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("registry", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "a", 1, DefaultExpiration)
	cache.Set(ctx, "b", 2, DefaultExpiration)
	cache.Set(ctx, "c", 3, DefaultExpiration)

	require.NoError(t, cache.Delete(ctx, "a", "b"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	require.Equal(t, 1, cache.Len())

	require.NoError(t, cache.Flush(ctx))
	require.Zero(t, cache.Len())
}
