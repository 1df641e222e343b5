package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func assertVec(t *testing.T, want, got Vec2) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
}

func TestResolveZeroIsOrigin(t *testing.T) {
	viewports := []Viewport{
		{SizePx: V(800, 600), DPI: 96},
		{SizePx: V(1, 1), DPI: 72},
		{SizePx: V(3840, 2160), DPI: 192},
	}
	for _, vp := range viewports {
		got := Resolve(HybridCoord{}, vp.PtsRatScale(), Identity())
		assert.Equal(t, Vec2{}, got)
	}
}

func TestRootMapsCorners(t *testing.T) {
	f := Viewport{SizePx: V(800, 600), DPI: 72}.Frame()
	assertVec(t, V(-1, 1), f.Resolve(Ratio(0, 0)))
	assertVec(t, V(1, -1), f.Resolve(Ratio(1, 1)))
	assertVec(t, V(0, 0), f.Resolve(Ratio(0.5, 0.5)))
}

func TestPointsArePixelAccurate(t *testing.T) {
	vp := Viewport{SizePx: V(800, 600), DPI: 144}
	f := vp.Frame()
	// 10pt at 144 DPI is 20px; 20px of 800px in NDC is 0.05.
	got := f.Resolve(Points(10, 0)).Sub(f.Resolve(Points(0, 0)))
	assertVec(t, V(0.05, 0), got)
}

func TestBorderSitsPointsFromRatioEdge(t *testing.T) {
	vp := Viewport{SizePx: V(1000, 500), DPI: 72}
	f := vp.Frame()
	edge := f.Resolve(Ratio(1, 0))
	border := f.Resolve(Hybrid(1, 0, -5, 0))
	assertVec(t, V(-0.01, 0), border.Sub(edge))
}

func TestResolveSizeIgnoresTranslation(t *testing.T) {
	m := Translate(3, 4).Mul(Scale(2, 0.5))
	got := ResolveSize(Ratio(1, 1), V(1, 1), m)
	assertVec(t, V(2, 0.5), got)
}

func TestPositionAndSizeShareLinearPart(t *testing.T) {
	m := Rotate(0.3).Mul(Scale(2, 3))
	s := V(0.01, 0.02)
	a := Hybrid(0.1, 0.2, 4, 5)
	b := Hybrid(0.4, 0.9, -2, 7)
	diff := Resolve(b, s, m).Sub(Resolve(a, s, m))
	assertVec(t, diff, ResolveSize(b.Sub(a), s, m))
}

func TestAffineMulOrder(t *testing.T) {
	m := Translate(1, 0).Mul(Scale(2, 2))
	assertVec(t, V(3, 2), m.Apply(V(1, 1)))
	assert.InDelta(t, 4, m.Det(), eps)
}

func TestMat3ColumnMajor(t *testing.T) {
	m := Affine{A: 1, B: 2, C: 3, D: 4, E: 5, F: 6}
	assert.Equal(t, [9]float32{1, 4, 0, 2, 5, 0, 3, 6, 1}, m.Mat3())
}

func TestWithRectNestsRatioSpace(t *testing.T) {
	vp := Viewport{SizePx: V(400, 400), DPI: 72}
	root := vp.Frame()
	child := root.WithRect(Rect{Min: Ratio(0.5, 0.5), Max: Ratio(1, 1)})

	assertVec(t, root.Resolve(Ratio(0.5, 0.5)), child.Resolve(Ratio(0, 0)))
	assertVec(t, root.Resolve(Ratio(0.75, 0.75)), child.Resolve(Ratio(0.5, 0.5)))

	// Points keep their absolute size inside the nested box.
	want := root.ResolveSize(Points(8, 8))
	assertVec(t, want, child.ResolveSize(Points(8, 8)))
}

func TestWithRectDegenerateAxisKeepsPoints(t *testing.T) {
	vp := Viewport{SizePx: V(200, 100), DPI: 72}
	root := vp.Frame()
	child := root.WithRect(Rect{Min: Ratio(0.25, 0.5), Max: Ratio(0.25, 0.5)})
	assertVec(t, root.Resolve(Hybrid(0.25, 0.5, 4, 2)), child.Resolve(Points(4, 2)))
}

func TestRectCorners(t *testing.T) {
	r := Rect{Min: Hybrid(0, 0, 1, 2), Max: Hybrid(1, 1, -3, -4)}
	assert.Equal(t, Hybrid(1, 0, -3, 2), r.UpRight())
	assert.Equal(t, Hybrid(0, 1, 1, -4), r.LowLeft())
	assert.Equal(t, Hybrid(1, 1, -4, -6), r.Size())
	assert.Equal(t, Rect{Min: Hybrid(0, 0, 2, 3), Max: Hybrid(1, 1, -4, -5)}, r.Inset(1))
}
