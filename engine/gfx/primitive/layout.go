package primitive

import (
	"github.com/hubastard/glint/engine/core"
	"github.com/hubastard/glint/engine/geom"
)

// uvMin2 uvMax2 offsetRatio2 offsetPts2 sizeRatio2 sizePts2 tint4
const glyphFloats = 16

// posRatio2 posPts2 sizeRatio2 sizePts2 normal2 color4
const coloredFloats = 14

var GlyphLayout = core.VertexLayout{
	Stride: glyphFloats * 4,
	Attributes: []core.VertexAttrib{
		{Location: 0, Size: 2, Type: core.AttribFloat32, Offset: 0},      // uv min
		{Location: 1, Size: 2, Type: core.AttribFloat32, Offset: 2 * 4},  // uv max
		{Location: 2, Size: 2, Type: core.AttribFloat32, Offset: 4 * 4},  // offset ratio
		{Location: 3, Size: 2, Type: core.AttribFloat32, Offset: 6 * 4},  // offset points
		{Location: 4, Size: 2, Type: core.AttribFloat32, Offset: 8 * 4},  // size ratio
		{Location: 5, Size: 2, Type: core.AttribFloat32, Offset: 10 * 4}, // size points
		{Location: 6, Size: 4, Type: core.AttribFloat32, Offset: 12 * 4}, // tint
	},
}

var ColoredLayout = core.VertexLayout{
	Stride: coloredFloats * 4,
	Attributes: []core.VertexAttrib{
		{Location: 0, Size: 2, Type: core.AttribFloat32, Offset: 0},      // position ratio
		{Location: 1, Size: 2, Type: core.AttribFloat32, Offset: 2 * 4},  // position points
		{Location: 2, Size: 2, Type: core.AttribFloat32, Offset: 4 * 4},  // size ratio
		{Location: 3, Size: 2, Type: core.AttribFloat32, Offset: 6 * 4},  // size points
		{Location: 4, Size: 2, Type: core.AttribFloat32, Offset: 8 * 4},  // normal
		{Location: 5, Size: 4, Type: core.AttribFloat32, Offset: 10 * 4}, // color
	},
}

// GlyphFloats appends pts to dst in GlyphLayout order.
func GlyphFloats(dst []float32, pts []GlyphPoint) []float32 {
	for _, p := range pts {
		dst = appendVec(dst, p.UVMin, p.UVMax)
		dst = appendHybrid(dst, p.Offset, p.Size)
		c := p.Color()
		dst = append(dst, c[:]...)
	}
	return dst
}

// ColoredFloats appends pts to dst in ColoredLayout order.
func ColoredFloats(dst []float32, pts []ColoredPoint) []float32 {
	for _, p := range pts {
		dst = appendHybrid(dst, p.Position, p.Size)
		dst = appendVec(dst, p.Normal)
		dst = append(dst, p.Color[:]...)
	}
	return dst
}

func appendVec(dst []float32, vs ...geom.Vec2) []float32 {
	for _, v := range vs {
		dst = append(dst, v.X, v.Y)
	}
	return dst
}

func appendHybrid(dst []float32, cs ...geom.HybridCoord) []float32 {
	for _, c := range cs {
		dst = append(dst, c.Ratio.X, c.Ratio.Y, c.Points.X, c.Points.Y)
	}
	return dst
}
