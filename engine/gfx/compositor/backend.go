package compositor

import (
	"image"

	"github.com/hubastard/glint/engine/gfx/expand"
	"github.com/hubastard/glint/engine/gfx/primitive"
)

// Program selects the shader pipeline of a draw call.
type Program uint8

const (
	// TexturedAlpha multiplies single channel atlas coverage by the tint.
	TexturedAlpha Program = iota
	// TexturedRGBA multiplies an RGBA texture by the tint.
	TexturedRGBA
	// Flat draws colored quads without sampling.
	Flat
)

func (p Program) String() string {
	switch p {
	case TexturedAlpha:
		return "textured-alpha"
	case TexturedRGBA:
		return "textured-rgba"
	case Flat:
		return "flat"
	}
	return "unknown"
}

// TextureID names a texture known to the backend. The glyph atlas is
// always AtlasTexture.
type TextureID uint32

const AtlasTexture TextureID = 0

// DrawCall is one batch. Glyphs feeds the textured programs, Colored the
// flat one.
type DrawCall struct {
	Program  Program
	Texture  TextureID
	Uniforms expand.Uniforms
	Glyphs   []primitive.GlyphPoint
	Colored  []primitive.ColoredPoint
}

// Points is the number of point primitives in the call.
func (d DrawCall) Points() int { return len(d.Glyphs) + len(d.Colored) }

// Backend executes draw calls. Slices in a DrawCall are only valid for the
// duration of Draw.
type Backend interface {
	UploadAtlas(img *image.Alpha) error
	UploadTexture(id TextureID, img *image.RGBA) error
	Draw(call DrawCall) error
}
