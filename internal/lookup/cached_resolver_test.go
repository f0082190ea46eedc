package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"obsdb/internal/platform/strudel"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "Crab Nebula", cacheKey("  Crab Nebula\t"))
	assert.Equal(t, "M31", cacheKey("M31"))
	assert.NotEqual(t, cacheKey("m31"), cacheKey("M31"))
}

func TestCachedResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	m31 := &Result{Equinox: "J2000", Target: strudel.Target{Name: "M31"}, RA: &strudel.RA{Decimal: 10.68}, Dec: &strudel.Dec{Decimal: 41.27}}
	m31JSON, err := json.Marshal(m31)
	require.NoError(t, err)

	t.Run("hit skips upstream", func(t *testing.T) {
		next := new(mockResolver)
		cache := new(mockCache)
		cache.On("Get", ctx, "M31").Return(m31JSON, true, nil)

		res, err := NewCachedResolver(next, cache, nil).Resolve(ctx, "M31", "cb")

		require.NoError(t, err)
		assert.Equal(t, "M31", res.Target.Name)
		assert.Equal(t, 10.68, res.RA.Decimal)
		next.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("miss stores result", func(t *testing.T) {
		next := new(mockResolver)
		cache := new(mockCache)
		cache.On("Get", ctx, "M31").Return(nil, false, nil)
		next.On("Resolve", ctx, "M31", "cb").Return(m31, nil)
		cache.On("Set", ctx, "M31", m31JSON).Return(nil)

		res, err := NewCachedResolver(next, cache, nil).Resolve(ctx, "M31", "cb")

		require.NoError(t, err)
		assert.Same(t, m31, res)
		cache.AssertExpectations(t)
	})

	t.Run("nil result is not cached", func(t *testing.T) {
		next := new(mockResolver)
		cache := new(mockCache)
		cache.On("Get", ctx, "nothing").Return(nil, false, nil)
		next.On("Resolve", ctx, "nothing", "cb").Return(nil, nil)

		res, err := NewCachedResolver(next, cache, nil).Resolve(ctx, "nothing", "cb")

		require.NoError(t, err)
		assert.Nil(t, res)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		next := new(mockResolver)
		cache := new(mockCache)
		cache.On("Get", ctx, "B1950 X").Return(nil, false, nil)
		next.On("Resolve", ctx, "B1950 X", "cb").Return(&Result{Equinox: "B1950", Target: strudel.Target{Name: "B1950 X"}, RA: &strudel.RA{Decimal: 1}, Dec: &strudel.Dec{Decimal: 2}}, nil)

		res, err := NewCachedResolver(next, cache, nil).Resolve(ctx, "B1950 X", "cb")

		require.NoError(t, err)
		assert.Equal(t, "B1950 X", res.Target.Name)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lower case name misses upper case entry", func(t *testing.T) {
		next := new(mockResolver)
		cache := new(mockCache)
		m31Lower := &Result{Equinox: "J2000", Target: strudel.Target{Name: "m31"}, RA: &strudel.RA{Decimal: 10.68}, Dec: &strudel.Dec{Decimal: 41.27}}
		cache.On("Get", ctx, "m31").Return(nil, false, nil)
		next.On("Resolve", ctx, "m31", "cb").Return(m31Lower, nil)
		cache.On("Set", ctx, "m31", mock.Anything).Return(nil)

		res, err := NewCachedResolver(next, cache, nil).Resolve(ctx, "m31", "cb")

		require.NoError(t, err)
		assert.Equal(t, "m31", res.Target.Name)
		cache.AssertNotCalled(t, "Get", ctx, "M31")
	})

	t.Run("upstream error is not cached", func(t *testing.T) {
		next := new(mockResolver)
		cache := new(mockCache)
		boom := errors.New("boom")
		cache.On("Get", ctx, "M31").Return(nil, false, nil)
		next.On("Resolve", ctx, "M31", "cb").Return(nil, boom)

		_, err := NewCachedResolver(next, cache, nil).Resolve(ctx, "M31", "cb")

		assert.ErrorIs(t, err, boom)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache failures fall through", func(t *testing.T) {
		next := new(mockResolver)
		cache := new(mockCache)
		cache.On("Get", ctx, "M31").Return(nil, false, errors.New("redis down"))
		next.On("Resolve", ctx, "M31", "cb").Return(m31, nil)
		cache.On("Set", ctx, "M31", mock.Anything).Return(errors.New("redis down"))

		res, err := NewCachedResolver(next, cache, nil).Resolve(ctx, "M31", "cb")

		require.NoError(t, err)
		assert.Equal(t, "M31", res.Target.Name)
	})
}
