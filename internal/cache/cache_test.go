package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New()

	c.Set("k", "value", time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestGetMissing(t *testing.T) {
	c := New()

	_, ok := c.Get("absent")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New()

	c.Set("k", "value", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCleanupRemovesExpired(t *testing.T) {
	c := New()

	c.Set("stale", 1, 5*time.Millisecond)
	c.Set("fresh", 2, time.Hour)
	time.Sleep(20 * time.Millisecond)

	c.cleanup()

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.NotContains(t, c.items, "stale")
	assert.Contains(t, c.items, "fresh")
}

func TestKey(t *testing.T) {
	a := Key("main", "sports", "en")
	b := Key("main", "sports", "en")
	c := Key("main", "sports", "hi")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}
