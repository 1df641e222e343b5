// Package expand turns point primitives into quads. The Go functions here
// are the reference for the geometry shaders in shaders.go and are what the
// software backend runs.
package expand

import (
	"github.com/chewxy/math32"

	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/geom"
	"github.com/hubastard/glint/engine/gfx/primitive"
)

// Uniforms are the per draw call values shared by every point.
type Uniforms struct {
	Transform   geom.Affine
	PtsRatScale geom.Vec2
	// Base is added to every point position.
	Base geom.HybridCoord
}

// FrameUniforms builds uniforms for drawing inside f.
func FrameUniforms(f geom.Frame, base geom.HybridCoord) Uniforms {
	return Uniforms{Transform: f.Transform, PtsRatScale: f.PtsRatScale, Base: base}
}

func (u Uniforms) frame() geom.Frame {
	return geom.Frame{Transform: u.Transform, PtsRatScale: u.PtsRatScale}
}

// Corner is one emitted vertex in device space.
type Corner struct {
	Pos   geom.Vec2
	UV    geom.Vec2
	Color colors.Color
}

// Corner order of an emitted quad, as a triangle strip.
const (
	UpRight = iota
	UpLeft
	LowRight
	LowLeft
)

// Glyph expands a glyph point into its four corners.
func Glyph(p primitive.GlyphPoint, u Uniforms) [4]Corner {
	ul, dx, dy := quad(u, p.Offset, p.Size)
	c := p.Color()
	return [4]Corner{
		UpRight:  {Pos: ul.Add(dx), UV: geom.V(p.UVMax.X, p.UVMin.Y), Color: c},
		UpLeft:   {Pos: ul, UV: p.UVMin, Color: c},
		LowRight: {Pos: ul.Add(dx).Add(dy), UV: p.UVMax, Color: c},
		LowLeft:  {Pos: ul.Add(dy), UV: geom.V(p.UVMin.X, p.UVMax.Y), Color: c},
	}
}

// Colored expands a colored point into its four corners.
func Colored(p primitive.ColoredPoint, u Uniforms) [4]Corner {
	ul, dx, dy := quad(u, p.Position, p.Size)
	return [4]Corner{
		UpRight:  {Pos: ul.Add(dx), Color: p.Color},
		UpLeft:   {Pos: ul, Color: p.Color},
		LowRight: {Pos: ul.Add(dx).Add(dy), Color: p.Color},
		LowLeft:  {Pos: ul.Add(dy), Color: p.Color},
	}
}

// quad resolves the upper-left corner and the two edge vectors. Edges go
// through the same linear part as the corner so a skewing transform moves
// all four corners consistently.
func quad(u Uniforms, pos, size geom.HybridCoord) (ul, dx, dy geom.Vec2) {
	f := u.frame()
	ul = f.Resolve(u.Base.Add(pos))
	dx = f.ResolveSize(geom.Hybrid(size.Ratio.X, 0, size.Points.X, 0))
	dy = f.ResolveSize(geom.Hybrid(0, size.Ratio.Y, 0, size.Points.Y))
	return ul, dx, dy
}

// Winding is the cross product of the first two strip edges. Its sign is
// the same for every quad drawn with one transform.
func Winding(c [4]Corner) float32 {
	return c[1].Pos.Sub(c[0].Pos).Cross(c[2].Pos.Sub(c[1].Pos))
}

// ShadeAlpha is the fragment stage of the alpha-texture program: coverage
// from the atlas scales the tint's alpha.
func ShadeAlpha(coverage float32, tint colors.Color) colors.Color {
	return colors.Color{tint[0], tint[1], tint[2], tint[3] * clamp01(coverage)}
}

// ShadeRGBA is the fragment stage of the RGBA texture program.
func ShadeRGBA(sample, tint colors.Color) colors.Color {
	return sample.Mul(tint)
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
