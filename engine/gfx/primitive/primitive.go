// Package primitive turns laid out text and shape descriptions into point
// primitives: one GlyphPoint per visible glyph and one ColoredPoint per
// colored rectangle. Points are expanded into quads later, on the GPU or by
// the software backend.
package primitive

import (
	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/geom"
	"github.com/hubastard/glint/engine/text"
)

// GlyphPoint is one textured quad. Offset is its upper-left corner.
type GlyphPoint struct {
	UVMin, UVMax geom.Vec2
	Offset       geom.HybridCoord
	Size         geom.HybridCoord
	Tint         colors.Color
	Tinted       bool // false draws the glyph white
}

// Color is the color the glyph's coverage is multiplied with.
func (p GlyphPoint) Color() colors.Color {
	if p.Tinted {
		return p.Tint
	}
	return colors.White
}

// ColoredPoint is one flat colored quad. Normal points out of the shape for
// border edges and is zero for fills.
type ColoredPoint struct {
	Position geom.HybridCoord
	Size     geom.HybridCoord
	Normal   geom.Vec2
	Color    colors.Color
}

// Shape is a filled rectangle with an optional border drawn inside Bounds.
type Shape struct {
	Bounds      geom.Rect
	Fill        colors.Color
	BorderWidth float32 // points
	BorderColor colors.Color
}

// EntrySource resolves glyph keys to atlas entries.
type EntrySource interface {
	Lookup(key text.GlyphKey) text.AtlasEntry
}

// EmitText returns one GlyphPoint per visible, non-blank glyph, in input
// order. base is added to every pen position; a nil tint draws white.
func EmitText(glyphs []text.PositionedGlyph, src EntrySource, base geom.HybridCoord, tint *colors.Color) []GlyphPoint {
	return AppendText(nil, glyphs, src, base, tint)
}

// AppendText is EmitText appending to dst.
func AppendText(dst []GlyphPoint, glyphs []text.PositionedGlyph, src EntrySource, base geom.HybridCoord, tint *colors.Color) []GlyphPoint {
	for _, g := range glyphs {
		if !g.Visible {
			continue
		}
		e := src.Lookup(g.Key)
		if e.Blank() {
			continue
		}
		p := GlyphPoint{
			UVMin:  e.UV.Min,
			UVMax:  e.UV.Max,
			Offset: base.Add(g.Pen).AddPoints(geom.V(e.BearingX, -e.BearingY)),
			Size:   geom.Points(e.Size.X, e.Size.Y),
		}
		if tint != nil {
			p.Tint, p.Tinted = *tint, true
		}
		dst = append(dst, p)
	}
	return dst
}

// EmitShape returns the fill followed by the top, right, bottom and left
// border edges. Invisible parts are left out.
func EmitShape(s Shape) []ColoredPoint {
	return AppendShape(nil, s)
}

// AppendShape is EmitShape appending to dst.
func AppendShape(dst []ColoredPoint, s Shape) []ColoredPoint {
	size := s.Bounds.Size()
	if s.Fill.Visible() {
		dst = append(dst, ColoredPoint{Position: s.Bounds.Min, Size: size, Color: s.Fill})
	}
	bw := s.BorderWidth
	if !(bw > 0) || !s.BorderColor.Visible() {
		return dst
	}
	horiz := geom.Hybrid(size.Ratio.X, 0, size.Points.X, bw)
	vert := geom.Hybrid(0, size.Ratio.Y, bw, size.Points.Y-2*bw)
	c := s.BorderColor
	return append(dst,
		ColoredPoint{Position: s.Bounds.Min, Size: horiz, Normal: geom.V(0, -1), Color: c},
		ColoredPoint{Position: s.Bounds.UpRight().AddPoints(geom.V(-bw, bw)), Size: vert, Normal: geom.V(1, 0), Color: c},
		ColoredPoint{Position: s.Bounds.LowLeft().AddPoints(geom.V(0, -bw)), Size: horiz, Normal: geom.V(0, 1), Color: c},
		ColoredPoint{Position: s.Bounds.Min.AddPoints(geom.V(0, bw)), Size: vert, Normal: geom.V(-1, 0), Color: c},
	)
}
