package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offering struct {
	Title    string
	Category string
}

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := New(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestSetAndGet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	expected := []offering{{Title: "Haircut", Category: "General"}}
	require.NoError(t, c.Set(ctx, "catalog", expected, time.Minute))

	var actual []offering
	found, err := c.Get(ctx, "catalog", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetMissingKey(t *testing.T) {
	c, _ := setupTestCache(t)

	var out []offering
	found, err := c.Get(context.Background(), "nothing", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExpiry(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "catalog", "value", time.Minute))
	mr.FastForward(2 * time.Minute)

	var out string
	found, err := c.Get(ctx, "catalog", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "catalog", "value", time.Minute))
	require.NoError(t, c.Invalidate(ctx, "catalog"))

	var out string
	found, err := c.Get(ctx, "catalog", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetInvalidJSON(t *testing.T) {
	c, mr := setupTestCache(t)
	require.NoError(t, mr.Set("bad", "not-json"))

	var out []offering
	found, err := c.Get(context.Background(), "bad", &out)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestNewUnreachable(t *testing.T) {
	c, err := New(context.Background(), Options{Addr: "127.0.0.1:1"})
	assert.Nil(t, c)
	assert.Error(t, err)
}
