package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLCollectorKeepsFirstSeenOrder(t *testing.T) {
	ctx := context.Background()
	c := NewURLCollector(nil, "")
	for _, u := range []string{"A", "B", "A", "C", "B"} {
		c.Add(ctx, u)
	}
	assert.Equal(t, []string{"A", "B", "C"}, c.URLs())
}

func TestURLCollectorAdd(t *testing.T) {
	ctx := context.Background()
	c := NewURLCollector(nil, "unused")

	assert.True(t, c.Add(ctx, "https://sofifa.com/player/1/"))
	assert.True(t, c.Add(ctx, "https://sofifa.com/player/2/"))
	assert.False(t, c.Add(ctx, "https://sofifa.com/player/1/"))

	assert.True(t, c.Has("https://sofifa.com/player/2/"))
	assert.False(t, c.Has("https://sofifa.com/player/3/"))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"https://sofifa.com/player/1/", "https://sofifa.com/player/2/"}, c.URLs())
}

func TestURLCollectorURLsReturnsCopy(t *testing.T) {
	c := NewURLCollector(nil, "")
	c.Add(context.Background(), "a")

	urls := c.URLs()
	urls[0] = "mutated"
	assert.Equal(t, []string{"a"}, c.URLs())
}

func TestURLCollectorReset(t *testing.T) {
	ctx := context.Background()
	c := NewURLCollector(nil, "")
	c.Add(ctx, "a")
	c.Reset(ctx)

	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Add(ctx, "a"))
}
