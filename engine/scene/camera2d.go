// Package scene holds view helpers layered on top of frames.
package scene

import (
	"github.com/hubastard/glint/engine/geom"
)

const minZoom = 0.05

// Camera2D pans, zooms and rotates the content of a frame around its
// center. X and Y are in points.
type Camera2D struct {
	X, Y        float32
	RotationRad float32
	Zoom        float32 // 1 = no zoom
}

func NewCamera2D() *Camera2D { return &Camera2D{Zoom: 1} }

func (c *Camera2D) Move(dx, dy float32) { c.X += dx; c.Y += dy }
func (c *Camera2D) Rotate(dRad float32) { c.RotationRad += dRad }
func (c *Camera2D) SetZoom(z float32) {
	if !(z >= minZoom) {
		z = minZoom
	}
	c.Zoom = z
}

// Matrix is the ratio-space transform of c inside f. Rotation happens in
// point space so it stays angle preserving on non-square frames.
func (c *Camera2D) Matrix(f geom.Frame) geom.Affine {
	k := f.PtsRatScale
	if k.X == 0 || k.Y == 0 {
		return geom.Translate(-c.X*k.X, -c.Y*k.Y)
	}
	z := c.Zoom
	if !(z >= minZoom) {
		z = 1
	}
	return geom.Translate(0.5, 0.5).
		Mul(geom.Scale(k.X, k.Y)).
		Mul(geom.Rotate(c.RotationRad)).
		Mul(geom.Scale(z, z)).
		Mul(geom.Scale(1/k.X, 1/k.Y)).
		Mul(geom.Translate(-0.5-c.X*k.X, -0.5-c.Y*k.Y))
}

// Apply returns f seen through c.
func (c *Camera2D) Apply(f geom.Frame) geom.Frame {
	return f.WithMatrix(c.Matrix(f))
}
