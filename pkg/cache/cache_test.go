package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ticker struct {
	Symbol   string `json:"symbol"`
	Currency string `json:"currency"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()

	require.NoError(t, mc.Set(ctx, Key("symbol", "VFV.TO"), ticker{Symbol: "VFV.TO", Currency: "CAD"}, time.Hour))

	var got ticker
	require.NoError(t, mc.Get(ctx, "symbol:VFV.TO", &got))
	assert.Equal(t, ticker{Symbol: "VFV.TO", Currency: "CAD"}, got)

	require.NoError(t, mc.Delete(ctx, "symbol:VFV.TO"))
	assert.ErrorIs(t, mc.Get(ctx, "symbol:VFV.TO", &got), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mc := NewMemoryCache(WithMemoryClock(func() time.Time { return now }))

	require.NoError(t, mc.Set(ctx, "short", 1, time.Minute))
	require.NoError(t, mc.Set(ctx, "forever", 2, 0))

	now = now.Add(2 * time.Minute)
	var v int
	assert.ErrorIs(t, mc.Get(ctx, "short", &v), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "forever", &v))
	assert.Equal(t, 2, v)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mc := NewMemoryCache(WithMemoryMaxSize(2), WithMemoryClock(func() time.Time { return now }))

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "b", 2, 0))
	now = now.Add(time.Second)

	var v int
	require.NoError(t, mc.Get(ctx, "a", &v))
	now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "a", &v))
}

func TestLayeredCachePromotesL2Hits(t *testing.T) {
	ctx := context.Background()
	l1, l2 := NewMemoryCache(), NewMemoryCache()
	lc := NewLayeredCache(l1, l2, time.Minute)

	require.NoError(t, l2.Set(ctx, "k", ticker{Symbol: "XEQT.TO"}, 0))
	assert.Equal(t, 0, l1.Len())

	var got ticker
	require.NoError(t, lc.Get(ctx, "k", &got))
	assert.Equal(t, "XEQT.TO", got.Symbol)
	assert.Equal(t, 1, l1.Len())

	require.NoError(t, lc.Set(ctx, "j", ticker{Symbol: "ZAG.TO"}, time.Hour))
	require.NoError(t, l2.Get(ctx, "j", &got))
	assert.Equal(t, "ZAG.TO", got.Symbol)

	require.NoError(t, lc.Delete(ctx, "k", "j"))
	assert.ErrorIs(t, lc.Get(ctx, "k", &got), ErrCacheMiss)
	assert.NoError(t, lc.Close())
}
