package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_GetSet(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := Open(ctx, "redis://"+mr.Addr(), "lookup:", time.Hour)
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.Get(ctx, "m31")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "m31", []byte(`{"equinox":"J2000"}`)))

	got, ok, err := c.Get(ctx, "m31")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"equinox":"J2000"}`, string(got))

	assert.True(t, mr.Exists("lookup:m31"))
	assert.Equal(t, time.Hour, mr.TTL("lookup:m31"))
}

func TestRedis_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := Open(ctx, "redis://"+mr.Addr(), "lookup:", time.Minute)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "vela", []byte("{}")))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "vela")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_BadURL(t *testing.T) {
	_, err := Open(context.Background(), "not a url", "", time.Minute)
	assert.Error(t, err)
}

func TestRedis_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := Open(ctx, "redis://"+mr.Addr(), "lookup:", time.Minute)
	require.NoError(t, err)
	defer c.Close()

	mr.Close()
	_, _, err = c.Get(ctx, "m31")
	assert.Error(t, err)
}
