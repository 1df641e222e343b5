package text

import "image"

// FontID identifies a face registered with an Atlas.
type FontID uint32

// LineMetrics are vertical font metrics. Descent is positive below the baseline.
type LineMetrics struct {
	Ascent, Descent, LineGap float32
}

// Height is the baseline-to-baseline distance.
func (m LineMetrics) Height() float32 { return m.Ascent + m.Descent + m.LineGap }

func (m LineMetrics) scale(s float32) LineMetrics {
	return LineMetrics{Ascent: m.Ascent * s, Descent: m.Descent * s, LineGap: m.LineGap * s}
}

// GlyphImage is a rasterized glyph in pixels. Mask is nil for blank glyphs
// such as the space character.
type GlyphImage struct {
	Mask     *image.Alpha
	Advance  float32
	BearingX float32 // pen to left edge of the mask
	BearingY float32 // baseline up to the top edge of the mask
}

// Face rasterizes glyphs of one font at arbitrary pixel sizes.
type Face interface {
	Name() string
	LineMetrics(sizePx float32) LineMetrics
	// Glyph returns false when the font has no glyph for r.
	Glyph(r rune, sizePx float32) (GlyphImage, bool)
}

// Kerner is implemented by faces that carry pair kerning.
type Kerner interface {
	// Kern returns the advance adjustment between left and right in pixels.
	Kern(left, right rune, sizePx float32) float32
}

func kern(face Face, left, right rune, size, ppp float32) float32 {
	k, ok := face.(Kerner)
	if !ok || !validSize(size) {
		return 0
	}
	return k.Kern(left, right, size*ppp) / ppp
}
