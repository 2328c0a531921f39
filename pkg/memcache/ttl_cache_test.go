package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestTTLCacheSlidesOnRead(t *testing.T) {
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string](time.Minute, WithClock[string](clk.now))

	c.Set("k", "v")
	clk.t = clk.t.Add(50 * time.Second)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	clk.t = clk.t.Add(50 * time.Second)
	_, ok = c.Get("k")
	assert.True(t, ok, "read should have extended the entry")

	clk.t = clk.t.Add(61 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestTTLCacheEvictCallback(t *testing.T) {
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	var evicted []string
	c := NewTTLCache[int](time.Minute,
		WithClock[int](clk.now),
		WithEvict(func(k string, _ int) { evicted = append(evicted, k) }))

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	assert.Equal(t, []string{"a"}, evicted)

	clk.t = clk.t.Add(2 * time.Minute)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, []string{"a", "b"}, evicted)
	assert.Zero(t, c.Sweep())
}
