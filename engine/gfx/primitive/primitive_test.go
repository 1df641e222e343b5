package primitive

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/geom"
	"github.com/hubastard/glint/engine/text"
)

type entries map[rune]text.AtlasEntry

func (m entries) Lookup(k text.GlyphKey) text.AtlasEntry { return m[k.Rune] }

var testEntries = entries{
	'a': {
		UV:   text.UVRect{Min: geom.V(0.1, 0.2), Max: geom.V(0.3, 0.4)},
		Px:   image.Rect(0, 0, 6, 8),
		Size: geom.V(6, 8), BearingX: 1, BearingY: 7, Advance: 7,
	},
	'b': {
		UV:   text.UVRect{Min: geom.V(0.5, 0.5), Max: geom.V(0.6, 0.7)},
		Px:   image.Rect(8, 0, 14, 10),
		Size: geom.V(6, 10), BearingX: 0, BearingY: 10, Advance: 7,
	},
	' ': {Advance: 4},
}

func glyph(r rune, x, y float32, visible bool) text.PositionedGlyph {
	return text.PositionedGlyph{Key: text.GlyphKey{Rune: r, Size: 10}, Pen: geom.Points(x, y), Visible: visible}
}

func TestEmitTextPlacesGlyphsFromPen(t *testing.T) {
	glyphs := []text.PositionedGlyph{
		glyph('a', 0, 8, true),
		glyph(' ', 7, 8, true),
		glyph('\n', 11, 8, false),
		glyph('b', 0, 18, true),
	}
	base := geom.Hybrid(0.5, 0.5, 2, 3)
	pts := EmitText(glyphs, testEntries, base, nil)

	require.Len(t, pts, 2, "invisible and blank records emit nothing")
	assert.Equal(t, geom.Hybrid(0.5, 0.5, 3, 4), pts[0].Offset)
	assert.Equal(t, geom.Points(6, 8), pts[0].Size)
	assert.Equal(t, geom.V(0.1, 0.2), pts[0].UVMin)
	assert.Equal(t, geom.V(0.3, 0.4), pts[0].UVMax)
	assert.False(t, pts[0].Tinted)
	assert.Equal(t, colors.White, pts[0].Color())

	assert.Equal(t, geom.Hybrid(0.5, 0.5, 2, 11), pts[1].Offset)
}

func TestEmitTextTint(t *testing.T) {
	tint := colors.Red
	pts := EmitText([]text.PositionedGlyph{glyph('a', 0, 0, true)}, testEntries, geom.HybridCoord{}, &tint)
	require.Len(t, pts, 1)
	assert.True(t, pts[0].Tinted)
	assert.Equal(t, colors.Red, pts[0].Color())
}

func TestEmitTextPreservesOrder(t *testing.T) {
	var glyphs []text.PositionedGlyph
	for i := range 50 {
		r := 'a'
		if i%3 == 0 {
			r = 'b'
		}
		glyphs = append(glyphs, glyph(r, float32(i), 0, true))
	}
	pts := EmitText(glyphs, testEntries, geom.HybridCoord{}, nil)
	require.Len(t, pts, len(glyphs))
	for i := 1; i < len(pts); i++ {
		// Pen x grows by one per record; bearings differ by at most 1.
		assert.Greater(t, pts[i].Offset.Points.X-pts[i-1].Offset.Points.X, float32(-1.5))
		assert.Equal(t, testEntries[glyphs[i].Key.Rune].UV.Min, pts[i].UVMin)
	}
}

func TestEmitTextFromRealLayout(t *testing.T) {
	face, err := text.ParseOpenType("goregular", goregular.TTF)
	require.NoError(t, err)
	atlas := text.NewAtlas(text.DefaultAtlasConfig())
	font := atlas.AddFace(face)

	l := text.LayoutText(atlas, text.LayoutInput{Text: "Hello, World!", Font: font, Size: 16, MaxWidth: text.Unbounded})
	pts := EmitText(l.Glyphs, atlas, geom.HybridCoord{}, nil)
	assert.Len(t, pts, 12, "the space has no quad")
	for _, p := range pts {
		assert.Less(t, p.UVMin.X, p.UVMax.X)
		assert.Less(t, p.UVMin.Y, p.UVMax.Y)
	}
}

func TestAppendTextReusesBuffer(t *testing.T) {
	buf := make([]GlyphPoint, 0, 8)
	out := AppendText(buf, []text.PositionedGlyph{glyph('a', 0, 0, true)}, testEntries, geom.HybridCoord{}, nil)
	assert.Len(t, out, 1)
	assert.Equal(t, cap(buf), cap(out))
}

func TestEmitShapeFillAndBorder(t *testing.T) {
	s := Shape{
		Bounds:      geom.Rect{Min: geom.Ratio(0, 0), Max: geom.Ratio(1, 1)},
		Fill:        colors.Gray,
		BorderWidth: 2,
		BorderColor: colors.White,
	}
	pts := EmitShape(s)
	require.Len(t, pts, 5)

	fill := pts[0]
	assert.Equal(t, geom.Vec2{}, fill.Normal)
	assert.Equal(t, colors.Gray, fill.Color)
	assert.Equal(t, geom.Ratio(1, 1), fill.Size)

	top, right, bottom, left := pts[1], pts[2], pts[3], pts[4]
	assert.Equal(t, geom.V(0, -1), top.Normal)
	assert.Equal(t, geom.V(1, 0), right.Normal)
	assert.Equal(t, geom.V(0, 1), bottom.Normal)
	assert.Equal(t, geom.V(-1, 0), left.Normal)

	assert.Equal(t, geom.Ratio(0, 0), top.Position)
	assert.Equal(t, geom.Hybrid(1, 0, 0, 2), top.Size)
	assert.Equal(t, geom.Hybrid(0, 1, 0, -2), bottom.Position)
	assert.Equal(t, geom.Hybrid(1, 0, -2, 2), right.Position)
	assert.Equal(t, geom.Hybrid(0, 1, 2, -4), right.Size)
	assert.Equal(t, geom.Points(0, 2), left.Position)
}

func TestEmitShapeSkipsInvisibleParts(t *testing.T) {
	r := geom.Rect{Max: geom.Points(10, 10)}
	assert.Empty(t, EmitShape(Shape{Bounds: r}))
	assert.Len(t, EmitShape(Shape{Bounds: r, Fill: colors.Red}), 1)
	assert.Len(t, EmitShape(Shape{Bounds: r, BorderWidth: 1, BorderColor: colors.Red}), 4)
	assert.Len(t, EmitShape(Shape{Bounds: r, Fill: colors.Red, BorderWidth: 1}), 1)
}

func TestFloatsMatchLayouts(t *testing.T) {
	g := GlyphFloats(nil, []GlyphPoint{{
		UVMin: geom.V(1, 2), UVMax: geom.V(3, 4),
		Offset: geom.Hybrid(5, 6, 7, 8), Size: geom.Hybrid(9, 10, 11, 12),
	}})
	require.Len(t, g, GlyphLayout.Floats())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 1, 1, 1, 1}, g)

	c := ColoredFloats(nil, []ColoredPoint{{
		Position: geom.Hybrid(1, 2, 3, 4), Size: geom.Hybrid(5, 6, 7, 8),
		Normal: geom.V(9, 10), Color: colors.Color{0.1, 0.2, 0.3, 0.4},
	}})
	require.Len(t, c, ColoredLayout.Floats())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 0.1, 0.2, 0.3, 0.4}, c)

	for _, l := range []struct {
		name  string
		attrs int
		n     int
	}{{"glyph", len(GlyphLayout.Attributes), GlyphLayout.Floats()}, {"colored", len(ColoredLayout.Attributes), ColoredLayout.Floats()}} {
		assert.Positive(t, l.attrs, l.name)
		assert.Positive(t, l.n, l.name)
	}
}
