package text

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/vector"
)

// GoTextFace reads metrics and outlines with go-text/typesetting and
// rasterizes them with x/image/vector. It is unhinted, so glyph masks carry
// fractional coverage at their edges.
type GoTextFace struct {
	name string

	mu   sync.Mutex // font.Face is not safe for concurrent use
	face *font.Face
}

// ParseGoText parses TTF or OTF data.
func ParseGoText(name string, data []byte) (*GoTextFace, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", name, err)
	}
	return &GoTextFace{name: name, face: face}, nil
}

// LoadGoText reads and parses the font file at path.
func LoadGoText(path string) (*GoTextFace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return ParseGoText(path, data)
}

func (f *GoTextFace) Name() string { return f.name }

func (f *GoTextFace) scale(sizePx float32) float32 {
	return sizePx / float32(f.face.Upem())
}

func (f *GoTextFace) LineMetrics(sizePx float32) LineMetrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	ext, ok := f.face.FontHExtents()
	if !ok {
		return LineMetrics{Ascent: sizePx, Descent: 0.25 * sizePx}
	}
	s := f.scale(sizePx)
	return LineMetrics{
		Ascent:  ext.Ascender * s,
		Descent: -ext.Descender * s,
		LineGap: math32.Max(ext.LineGap*s, 0),
	}
}

func (f *GoTextFace) Glyph(r rune, sizePx float32) (GlyphImage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gid, ok := f.face.NominalGlyph(r)
	if !ok || gid == 0 {
		return GlyphImage{}, false
	}
	s := f.scale(sizePx)
	img := GlyphImage{Advance: f.face.HorizontalAdvance(gid) * s}

	outline, ok := f.face.GlyphData(gid).(font.GlyphOutline)
	if !ok || len(outline.Segments) == 0 {
		return img, true
	}

	minX, minY := math32.Inf(1), math32.Inf(1)
	maxX, maxY := math32.Inf(-1), math32.Inf(-1)
	for _, seg := range outline.Segments {
		for _, p := range seg.ArgsSlice() {
			minX, maxX = math32.Min(minX, p.X*s), math32.Max(maxX, p.X*s)
			minY, maxY = math32.Min(minY, p.Y*s), math32.Max(maxY, p.Y*s)
		}
	}
	left, top := math32.Floor(minX), math32.Ceil(maxY)
	w := int(math32.Ceil(maxX) - left)
	h := int(top - math32.Floor(minY))
	if w <= 0 || h <= 0 {
		return img, true
	}

	// Outline space is y up; the mask is y down with its origin at (left, top).
	tx := func(x float32) float32 { return x*s - left }
	ty := func(y float32) float32 { return top - y*s }

	ras := vector.NewRasterizer(w, h)
	open := false
	for _, seg := range outline.Segments {
		a := seg.Args
		switch seg.Op {
		case opentype.SegmentOpMoveTo:
			if open {
				ras.ClosePath()
			}
			ras.MoveTo(tx(a[0].X), ty(a[0].Y))
			open = true
		case opentype.SegmentOpLineTo:
			ras.LineTo(tx(a[0].X), ty(a[0].Y))
		case opentype.SegmentOpQuadTo:
			ras.QuadTo(tx(a[0].X), ty(a[0].Y), tx(a[1].X), ty(a[1].Y))
		case opentype.SegmentOpCubeTo:
			ras.CubeTo(tx(a[0].X), ty(a[0].Y), tx(a[1].X), ty(a[1].Y), tx(a[2].X), ty(a[2].Y))
		}
	}
	if open {
		ras.ClosePath()
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	img.Mask = mask
	img.BearingX = left
	img.BearingY = top
	return img, true
}
