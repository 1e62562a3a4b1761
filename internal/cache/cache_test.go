package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("user:1", "alice")

	v, ok := c.Get("user:1")
	require.True(t, ok)
	assert.Equal(t, "alice", v)

	_, ok = c.Get("user:2")
	assert.False(t, ok)
}

func TestCache_ExpiredEntryIsAMiss(t *testing.T) {
	c := New(time.Minute)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("k", "v")

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c := New(0)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("k", "v")

	c.now = func() time.Time { return base.Add(24 * time.Hour) }
	_, ok := c.Get("k")
	assert.True(t, ok)
}

func TestCache_ClearIsIdempotent(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	require.Equal(t, 2, c.Len())

	c.Clear()
	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}
