package text

import (
	"strconv"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/hubastard/glint/engine/geom"
)

func TestLayoutCacheLRU(t *testing.T) {
	const size = 16
	a, font := newMonoAtlas(AtlasConfig{})
	c := NewLayoutCache(size)
	in := func(i int) LayoutInput {
		return LayoutInput{Text: strconv.Itoa(i), Font: font, Size: 10, MaxWidth: Unbounded}
	}
	has := func(i int) bool {
		k := layoutKey{text: strconv.Itoa(i), font: font, size: 10, maxWidth: Unbounded, generation: a.Generation()}
		_, ok := c.m[k]
		return ok
	}

	for i := range size {
		c.Layout(a, in(i))
	}
	assert.Equal(t, size, c.Len())
	// Touch 0 so 1 becomes the oldest.
	c.Layout(a, in(0))
	c.Layout(a, in(size))
	assert.Equal(t, size, c.Len())
	assert.True(t, has(0))
	assert.False(t, has(1))
	assert.True(t, has(size))
}

func TestLayoutCacheHitMatchesFreshLayout(t *testing.T) {
	a, font := newRegularAtlas(t)
	c := NewLayoutCache(0)
	in := LayoutInput{Text: "cached text", Font: font, Size: 12, MaxWidth: 50}

	first := c.Layout(a, in)
	second := c.Layout(a, in)
	assert.Equal(t, LayoutText(a, in), second)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Len())
}

func TestLayoutCacheKeysOnGeneration(t *testing.T) {
	a, font := newMonoAtlas(AtlasConfig{InitialSize: 16, MaxSize: 256, Padding: 1})
	c := NewLayoutCache(0)
	in := LayoutInput{Text: "ab", Font: font, Size: 10, MaxWidth: Unbounded}

	before := c.Layout(a, in)
	lookupRunes(a, font, 20) // forces a repack
	after := c.Layout(a, in)

	assert.Greater(t, after.Generation, before.Generation)
	assert.Equal(t, 2, c.Len())
}

func TestLayoutCacheSkipsNaNInputs(t *testing.T) {
	a, font := newMonoAtlas(AtlasConfig{})
	c := NewLayoutCache(2)
	keep := LayoutInput{Text: "keep", Font: font, Size: 10, MaxWidth: Unbounded}
	c.Layout(a, keep)

	nan := math32.NaN()
	inputs := []LayoutInput{
		{Text: "w", Font: font, Size: 10, MaxWidth: nan},
		{Text: "s", Font: font, Size: nan, MaxWidth: 10},
		{Text: "p", Font: font, Size: 10, MaxWidth: 10, Start: geom.Points(nan, 0)},
		{Text: "b", Font: font, Size: 10, MaxWidth: 10, BoxHeight: nan},
	}
	for range 10 {
		for _, in := range inputs {
			assert.Equal(t, LayoutText(a, in).Lines, c.Layout(a, in).Lines)
		}
	}
	assert.Equal(t, 1, c.Len(), "NaN inputs must not push out live entries")
	_, ok := c.m[layoutKey{text: "keep", font: font, size: 10, maxWidth: Unbounded, generation: a.Generation()}]
	assert.True(t, ok)
}
