package geom

// pointsPerInch is the reference DPI of the points unit.
const pointsPerInch = 72

// Resolve maps a hybrid position to device space.
func Resolve(c HybridCoord, ptsRatScale Vec2, m Affine) Vec2 {
	return m.Apply(c.Flatten(ptsRatScale))
}

// ResolveSize maps a hybrid extent to device space. It uses the same linear
// part as Resolve so positions and sizes never skew apart.
func ResolveSize(c HybridCoord, ptsRatScale Vec2, m Affine) Vec2 {
	return m.ApplyVector(c.Flatten(ptsRatScale))
}

// Viewport is the window surface the root frame maps onto.
type Viewport struct {
	SizePx Vec2
	DPI    float32
}

// PtsRatScale converts points into root ratio units.
func (vp Viewport) PtsRatScale() Vec2 {
	if vp.SizePx.X <= 0 || vp.SizePx.Y <= 0 {
		return Vec2{}
	}
	dpi := vp.DPI
	if dpi <= 0 {
		dpi = pointsPerInch
	}
	k := dpi / pointsPerInch
	return Vec2{k / vp.SizePx.X, k / vp.SizePx.Y}
}

// PixelsPerPoint is the rasterization scale for glyph bitmaps.
func (vp Viewport) PixelsPerPoint() float32 {
	if vp.DPI <= 0 {
		return 1
	}
	return vp.DPI / pointsPerInch
}

// Root maps the [0,1]² ratio space, y down, onto NDC [-1,1]², y up.
func (vp Viewport) Root() Affine {
	return Affine{A: 2, C: -1, E: -2, F: 1}
}

// Frame returns the root frame for vp.
func (vp Viewport) Frame() Frame {
	return Frame{Transform: vp.Root(), PtsRatScale: vp.PtsRatScale()}
}

// Frame is the per-draw coordinate context: the transform and the
// points-to-ratio scale of the current box.
type Frame struct {
	Transform   Affine
	PtsRatScale Vec2
}

func (f Frame) Resolve(c HybridCoord) Vec2     { return Resolve(c, f.PtsRatScale, f.Transform) }
func (f Frame) ResolveSize(c HybridCoord) Vec2 { return ResolveSize(c, f.PtsRatScale, f.Transform) }

// WithRect returns the frame whose ratio space covers r inside f. Points keep
// their absolute size: the child scale is divided by the box extent. A
// degenerate axis keeps the parent scale so points still offset from the box
// origin.
func (f Frame) WithRect(r Rect) Frame {
	p0 := r.Min.Flatten(f.PtsRatScale)
	size := r.Max.Flatten(f.PtsRatScale).Sub(p0)

	sx, sy := size.X, size.Y
	scale := f.PtsRatScale
	if sx == 0 {
		sx = 1
	} else {
		scale.X /= sx
	}
	if sy == 0 {
		sy = 1
	} else {
		scale.Y /= sy
	}
	return Frame{
		Transform:   f.Transform.Mul(Translate(p0.X, p0.Y)).Mul(Scale(sx, sy)),
		PtsRatScale: scale,
	}
}

// WithMatrix applies m inside the current frame.
func (f Frame) WithMatrix(m Affine) Frame {
	f.Transform = f.Transform.Mul(m)
	return f
}
