package geom

import "github.com/chewxy/math32"

// Affine is a 2D affine transform stored as the first two rows of a 3x3
// homogeneous matrix:
//
//	| A B C |
//	| D E F |
//	| 0 0 1 |
type Affine struct {
	A, B, C float32
	D, E, F float32
}

func Identity() Affine { return Affine{A: 1, E: 1} }

func Translate(x, y float32) Affine { return Affine{A: 1, C: x, E: 1, F: y} }

func Scale(x, y float32) Affine { return Affine{A: x, E: y} }

func Rotate(rad float32) Affine {
	s, c := math32.Sin(rad), math32.Cos(rad)
	return Affine{A: c, B: -s, D: s, E: c}
}

// Mul returns m*o, i.e. o is applied first.
func (m Affine) Mul(o Affine) Affine {
	return Affine{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

// Apply transforms a point.
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{m.A*p.X + m.B*p.Y + m.C, m.D*p.X + m.E*p.Y + m.F}
}

// ApplyVector transforms a direction; translation is ignored.
func (m Affine) ApplyVector(v Vec2) Vec2 {
	return Vec2{m.A*v.X + m.B*v.Y, m.D*v.X + m.E*v.Y}
}

// Det returns the determinant of the linear part.
func (m Affine) Det() float32 { return m.A*m.E - m.B*m.D }

// Mat3 returns the column-major 3x3 form expected by GLSL mat3 uniforms.
func (m Affine) Mat3() [9]float32 {
	return [9]float32{
		m.A, m.D, 0,
		m.B, m.E, 0,
		m.C, m.F, 1,
	}
}
