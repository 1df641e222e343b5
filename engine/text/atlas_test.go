package text

import (
	"image"
	"sync"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/glint/engine/geom"
)

func lookupRunes(a *Atlas, font FontID, n int) []AtlasEntry {
	out := make([]AtlasEntry, n)
	for i := range n {
		out[i] = a.Lookup(GlyphKey{Font: font, Rune: 'A' + rune(i), Size: 10})
	}
	return out
}

func assertDisjoint(t *testing.T, a *Atlas) {
	t.Helper()
	var rects []image.Rectangle
	for _, e := range a.live {
		if e.Px.Empty() {
			continue
		}
		assert.True(t, e.Px.In(a.pixels.Rect), "entry %d outside atlas", e.ID)
		for _, r := range rects {
			assert.False(t, r.Overlaps(e.Px), "entry %d overlaps %v", e.ID, r)
		}
		rects = append(rects, e.Px)
	}
}

func TestLookupCachesEntry(t *testing.T) {
	a, font := newRegularAtlas(t)
	key := GlyphKey{Font: font, Rune: 'g', Size: 14}

	first := a.Lookup(key)
	second := a.Lookup(key)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, a.Len())
	assert.False(t, first.Blank())
	assert.False(t, first.Placeholder)
	assert.Less(t, first.UV.Min.X, first.UV.Max.X)
	assert.Less(t, first.UV.Min.Y, first.UV.Max.Y)
	assert.True(t, a.Dirty())

	a.MarkUploaded()
	a.Lookup(key)
	assert.False(t, a.Dirty(), "cache hit must not touch pixels")
}

func TestSpaceIsBlank(t *testing.T) {
	a, font := newRegularAtlas(t)
	e := a.Lookup(GlyphKey{Font: font, Rune: ' ', Size: 14})
	assert.True(t, e.Blank())
	assert.Greater(t, e.Advance, float32(0))
	assert.Equal(t, UVRect{}, e.UV)
}

func TestMetricsScaleWithPixelsPerPoint(t *testing.T) {
	lo := NewAtlas(AtlasConfig{PixelsPerPoint: 1})
	hi := NewAtlas(AtlasConfig{PixelsPerPoint: 2})
	lf, hf := lo.AddFace(monoFace{}), hi.AddFace(monoFace{})

	a := lo.Lookup(GlyphKey{Font: lf, Rune: 'x', Size: 10})
	b := hi.Lookup(GlyphKey{Font: hf, Rune: 'x', Size: 10})
	assert.Equal(t, a.Advance, b.Advance)
	// Same bitmap, twice the density.
	assert.InDelta(t, a.Size.X/2, b.Size.X, 1e-6)
	assert.Equal(t, lo.LineMetrics(lf, 10), hi.LineMetrics(hf, 10))
}

func TestMissingGlyphFallsBackToPlaceholder(t *testing.T) {
	a, font := newMonoAtlas(AtlasConfig{})
	key := GlyphKey{Font: font, Rune: '\ue000', Size: 16}

	e := a.Lookup(key)
	assert.True(t, e.Placeholder)
	assert.False(t, e.Blank())
	assert.Greater(t, e.Advance, float32(0))

	_, err := a.Get(key)
	assert.ErrorIs(t, err, ErrGlyphNotRenderable)

	diags := a.Diagnostics()
	require.NotEmpty(t, diags)
	assert.ErrorIs(t, diags[0], ErrGlyphNotRenderable)
	assert.Equal(t, key, diags[0].Key)

	// Every missing rune shares one placeholder entry.
	other := a.Lookup(GlyphKey{Font: font, Rune: '\ue001', Size: 16})
	assert.Equal(t, e.ID, other.ID)
}

func TestUnknownFont(t *testing.T) {
	a, _ := newMonoAtlas(AtlasConfig{})
	key := GlyphKey{Font: 7, Rune: 'a', Size: 10}

	_, err := a.Get(key)
	assert.ErrorIs(t, err, ErrUnknownFont)

	e := a.Lookup(key)
	assert.True(t, e.Placeholder)
	assert.True(t, e.Blank())
	assert.Equal(t, LineMetrics{}, a.LineMetrics(7, 10))
}

func TestInvalidSizeIsNotRenderable(t *testing.T) {
	a, font := newMonoAtlas(AtlasConfig{})
	_, err := a.Get(GlyphKey{Font: font, Rune: 'a', Size: -3})
	assert.ErrorIs(t, err, ErrGlyphNotRenderable)
}

func TestGenerationIncrementsOncePerRepack(t *testing.T) {
	// 7x9 padded cells: a 16px atlas holds 2, 32px holds 12.
	a, font := newMonoAtlas(AtlasConfig{InitialSize: 16, MaxSize: 256, Padding: 1})
	require.EqualValues(t, 1, a.Generation())

	lookupRunes(a, font, 2)
	assert.EqualValues(t, 1, a.Generation())

	lookupRunes(a, font, 3)
	assert.EqualValues(t, 2, a.Generation())
	assert.Equal(t, 32, a.Pixels().Rect.Dx())

	lookupRunes(a, font, 12)
	assert.EqualValues(t, 2, a.Generation())

	lookupRunes(a, font, 13)
	assert.EqualValues(t, 3, a.Generation())
	assert.Equal(t, 64, a.Pixels().Rect.Dx())
	assertDisjoint(t, a)
}

func TestRepackKeepsEntryIdentity(t *testing.T) {
	a, font := newMonoAtlas(AtlasConfig{InitialSize: 16, MaxSize: 1024, Padding: 2})
	before := lookupRunes(a, font, 2)
	gen := a.Generation()

	after := lookupRunes(a, font, 60)
	assert.Greater(t, a.Generation(), gen)
	assertDisjoint(t, a)

	for i, e := range before {
		assert.Equal(t, e.ID, after[i].ID)
		assert.Equal(t, e.Key, after[i].Key)
		assert.Greater(t, after[i].Generation, e.Generation)
	}
	for _, e := range after {
		got := a.Lookup(e.Key)
		assert.Equal(t, a.Generation(), got.Generation)
		// Pixels moved with the entry.
		want := byte(e.Key.Rune)
		assert.Equal(t, want, a.Pixels().AlphaAt(got.Px.Min.X, got.Px.Min.Y).A)
		assert.InDelta(t, float32(got.Px.Min.X)/float32(a.Pixels().Rect.Dx()), got.UV.Min.X, 1e-6)
	}
}

func TestEvictionAtMaxSize(t *testing.T) {
	a, font := newMonoAtlas(AtlasConfig{InitialSize: 16, MaxSize: 16, Padding: 1})
	key := func(r rune) GlyphKey { return GlyphKey{Font: font, Rune: r, Size: 10} }

	a.BeginFrame()
	old := a.Lookup(key('a'))
	a.Lookup(key('b'))

	a.BeginFrame()
	c, err := a.Get(key('c'))
	require.NoError(t, err)
	assert.False(t, a.Degraded())
	assert.EqualValues(t, 2, a.Generation())
	assert.Equal(t, 1, a.Len(), "unused glyphs evicted")

	_, err = a.Get(key('d'))
	require.NoError(t, err)

	_, err = a.Get(key('e'))
	assert.ErrorIs(t, err, ErrAtlasOverflow)
	assert.True(t, a.Degraded())
	assert.True(t, a.Lookup(key('e')).Placeholder)

	// An evicted glyph comes back under a new identity.
	a.BeginFrame()
	assert.False(t, a.Degraded())
	again := a.Lookup(key('a'))
	assert.NotEqual(t, old.ID, again.ID)
	assert.NotEqual(t, c.ID, again.ID)
	assertDisjoint(t, a)
}

func TestEvictionRetriesLargerSizes(t *testing.T) {
	a := NewAtlas(AtlasConfig{InitialSize: 32, MaxSize: 64, Padding: 1})
	font := a.AddFace(squareFace{})

	a.BeginFrame()
	for _, r := range "abcd" {
		_, err := a.Get(GlyphKey{Font: font, Rune: r, Size: 14})
		require.NoError(t, err)
	}
	require.Equal(t, 32, a.Pixels().Rect.Dx())

	// Too big for 32px, and 64px only once the old glyphs are gone.
	a.BeginFrame()
	big, err := a.Get(GlyphKey{Font: font, Rune: 'e', Size: 50})
	require.NoError(t, err)
	assert.False(t, a.Degraded())
	assert.Equal(t, 64, a.Pixels().Rect.Dx())
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, a.Generation(), big.Generation)
	assertDisjoint(t, a)
}

func TestEvictionReclaimsSpaceOnOverflow(t *testing.T) {
	a := NewAtlas(AtlasConfig{InitialSize: 16, MaxSize: 16, Padding: 1})
	mono := a.AddFace(monoFace{})
	square := a.AddFace(squareFace{})
	key := func(r rune) GlyphKey { return GlyphKey{Font: mono, Rune: r, Size: 10} }

	a.BeginFrame()
	a.Lookup(key('a'))
	a.Lookup(key('b'))

	a.BeginFrame()
	_, err := a.Get(GlyphKey{Font: square, Rune: 'x', Size: 20})
	require.ErrorIs(t, err, ErrAtlasOverflow)
	assert.Zero(t, a.Len())

	gen := a.Generation()
	for _, r := range "cd" {
		_, err := a.Get(key(r))
		require.NoError(t, err)
	}
	assert.Equal(t, gen, a.Generation(), "evicted cells were free without another repack")
	assertDisjoint(t, a)
}

func TestSetPixelsPerPoint(t *testing.T) {
	a, font := newMonoAtlas(AtlasConfig{InitialSize: 16, MaxSize: 256, Padding: 1})
	key := GlyphKey{Font: font, Rune: 'a', Size: 10}
	before := a.Lookup(key)
	lookupRunes(a, font, 20)
	require.Greater(t, a.Pixels().Rect.Dx(), 16)
	gen := a.Generation()
	a.MarkUploaded()

	a.SetPixelsPerPoint(2)
	assert.Equal(t, gen+1, a.Generation())
	assert.Zero(t, a.Len())
	assert.True(t, a.Dirty())
	assert.Equal(t, 16, a.Pixels().Rect.Dx())
	assert.EqualValues(t, 2, a.Config().PixelsPerPoint)

	after := a.Lookup(key)
	assert.Equal(t, before.Advance, after.Advance, "advances stay in points")
	assert.Equal(t, geom.V(3, 4), after.Size)
	assert.Equal(t, geom.V(6, 8), before.Size)
	assert.InDelta(t, 8, a.LineMetrics(font, 10).Ascent, 1e-5)

	gen = a.Generation()
	for _, ppp := range []float32{2, 0, -1, math32.NaN(), math32.Inf(1)} {
		a.SetPixelsPerPoint(ppp)
	}
	assert.Equal(t, gen, a.Generation())
	assert.EqualValues(t, 2, a.Config().PixelsPerPoint)
}

func TestKernIsAppliedInPoints(t *testing.T) {
	a := NewAtlas(AtlasConfig{PixelsPerPoint: 2})
	font := a.AddFace(kernFace{})
	assert.InDelta(t, -1, a.Kern(font, 'A', 'V', 10), 1e-5)
	assert.Zero(t, a.Kern(font, 'V', 'A', 10))
	assert.Zero(t, a.Kern(font+1, 'A', 'V', 10))

	mono := a.AddFace(monoFace{})
	assert.Zero(t, a.Kern(mono, 'A', 'V', 10))

	snap := a.Snapshot()
	assert.InDelta(t, -1, snap.Kern(font, 'A', 'V', 10), 1e-5)
}

func TestSnapshotIsStableAndConcurrent(t *testing.T) {
	a, font := newRegularAtlas(t)
	const s = "The quick brown fox"
	a.Prepare(font, 12, s)
	snap := a.Snapshot()

	in := LayoutInput{Text: s, Font: font, Size: 12, MaxWidth: 80}
	want := LayoutText(a, in)

	var wg sync.WaitGroup
	results := make([]Layout, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = LayoutText(snap, in)
		}()
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}

	// Later growth does not leak into the snapshot.
	a.Lookup(GlyphKey{Font: font, Rune: 'Z', Size: 40})
	assert.False(t, snap.Has(GlyphKey{Font: font, Rune: 'Z', Size: 40}))
	assert.True(t, snap.Lookup(GlyphKey{Font: font, Rune: 'Z', Size: 40}).Placeholder)
}
