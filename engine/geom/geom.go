// Package geom holds the hybrid ratio/points coordinate model and the affine
// math that resolves it into normalized device coordinates.
//
// Ratio coordinates are fractions of the containing box with the origin in the
// top-left corner and y growing downward. Points are absolute 1/72 inch units.
// A position resolves as
//
//	device = M * (ratio + points ⊙ ptsRatScale)
//
// where M is the active affine transform and ptsRatScale converts points into
// ratio units of the current box.
package geom

import "github.com/chewxy/math32"

// Vec2 is a two component float32 vector.
type Vec2 struct {
	X, Y float32
}

func V(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul multiplies component-wise.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Cross returns the z component of the 3D cross product of v and o.
func (v Vec2) Cross(o Vec2) float32 { return v.X*o.Y - v.Y*o.X }

// Len returns the euclidean length of v.
func (v Vec2) Len() float32 { return math32.Hypot(v.X, v.Y) }

// HybridCoord mixes a ratio part and a points part.
type HybridCoord struct {
	Ratio  Vec2
	Points Vec2
}

// Ratio builds a coordinate with only a ratio part.
func Ratio(x, y float32) HybridCoord { return HybridCoord{Ratio: Vec2{x, y}} }

// Points builds a coordinate with only a points part.
func Points(x, y float32) HybridCoord { return HybridCoord{Points: Vec2{x, y}} }

// Hybrid builds a coordinate from both parts.
func Hybrid(rx, ry, px, py float32) HybridCoord {
	return HybridCoord{Ratio: Vec2{rx, ry}, Points: Vec2{px, py}}
}

func (c HybridCoord) Add(o HybridCoord) HybridCoord {
	return HybridCoord{Ratio: c.Ratio.Add(o.Ratio), Points: c.Points.Add(o.Points)}
}

func (c HybridCoord) Sub(o HybridCoord) HybridCoord {
	return HybridCoord{Ratio: c.Ratio.Sub(o.Ratio), Points: c.Points.Sub(o.Points)}
}

// AddPoints offsets the points part only.
func (c HybridCoord) AddPoints(p Vec2) HybridCoord {
	c.Points = c.Points.Add(p)
	return c
}

// Flatten collapses c into a single vector in the units of the box that
// ptsRatScale belongs to.
func (c HybridCoord) Flatten(ptsRatScale Vec2) Vec2 {
	return c.Ratio.Add(c.Points.Mul(ptsRatScale))
}

// Rect is a box with hybrid corners. Min is the upper-left corner.
type Rect struct {
	Min, Max HybridCoord
}

func (r Rect) UpRight() HybridCoord {
	return HybridCoord{
		Ratio:  Vec2{r.Max.Ratio.X, r.Min.Ratio.Y},
		Points: Vec2{r.Max.Points.X, r.Min.Points.Y},
	}
}

func (r Rect) LowLeft() HybridCoord {
	return HybridCoord{
		Ratio:  Vec2{r.Min.Ratio.X, r.Max.Ratio.Y},
		Points: Vec2{r.Min.Points.X, r.Max.Points.Y},
	}
}

// Size returns the extent of r as a hybrid vector.
func (r Rect) Size() HybridCoord { return r.Max.Sub(r.Min) }

// Inset shrinks r by d points on every side.
func (r Rect) Inset(d float32) Rect {
	return Rect{Min: r.Min.AddPoints(Vec2{d, d}), Max: r.Max.AddPoints(Vec2{-d, -d})}
}

// Full is the rect covering the whole container.
var Full = Rect{Min: Ratio(0, 0), Max: Ratio(1, 1)}
