package text

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// OpenTypeFace rasterizes glyphs with x/image/font/opentype. One hinted
// font.Face is kept per requested pixel size.
type OpenTypeFace struct {
	name string
	font *opentype.Font

	mu    sync.Mutex
	faces map[float32]font.Face
}

// ParseOpenType parses TTF or OTF data.
func ParseOpenType(name string, data []byte) (*OpenTypeFace, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", name, err)
	}
	return &OpenTypeFace{name: name, font: ft, faces: make(map[float32]font.Face)}, nil
}

// LoadOpenType reads and parses the font file at path.
func LoadOpenType(path string) (*OpenTypeFace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return ParseOpenType(path, data)
}

func (f *OpenTypeFace) Name() string { return f.name }

func (f *OpenTypeFace) sized(sizePx float32) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[sizePx]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	f.faces[sizePx] = face
	return face, nil
}

func (f *OpenTypeFace) LineMetrics(sizePx float32) LineMetrics {
	face, err := f.sized(sizePx)
	if err != nil {
		return LineMetrics{}
	}
	m := face.Metrics()
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	gap := fixedToFloat(m.Height) - ascent - descent
	if gap < 0 {
		gap = 0
	}
	return LineMetrics{Ascent: ascent, Descent: descent, LineGap: gap}
}

func (f *OpenTypeFace) Glyph(r rune, sizePx float32) (GlyphImage, bool) {
	if idx, err := f.font.GlyphIndex(nil, r); err != nil || idx == 0 {
		return GlyphImage{}, false
	}
	face, err := f.sized(sizePx)
	if err != nil {
		return GlyphImage{}, false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	dr, mask, maskp, adv, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return GlyphImage{}, false
	}
	img := GlyphImage{
		Advance:  fixedToFloat(adv),
		BearingX: float32(dr.Min.X),
		BearingY: float32(-dr.Min.Y),
	}
	if dr.Empty() {
		return img, true
	}
	// The mask aliases the face's scratch buffer.
	dst := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	draw.Draw(dst, dst.Bounds(), mask, maskp, draw.Src)
	img.Mask = dst
	return img, true
}

func (f *OpenTypeFace) Kern(left, right rune, sizePx float32) float32 {
	face, err := f.sized(sizePx)
	if err != nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return fixedToFloat(face.Kern(left, right))
}

// Close releases every sized face.
func (f *OpenTypeFace) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for size, face := range f.faces {
		_ = face.Close()
		delete(f.faces, size)
	}
	return nil
}

func fixedToFloat(v fixed.Int26_6) float32 { return float32(v) / 64 }
