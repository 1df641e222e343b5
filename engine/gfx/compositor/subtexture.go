package compositor

import (
	"github.com/hubastard/glint/engine/geom"
	"github.com/hubastard/glint/engine/text"
)

// SubTexture describes a UV sub-rect of a registered texture.
type SubTexture struct {
	Texture TextureID
	UV      text.UVRect
}

// WholeTexture covers all of tex.
func WholeTexture(tex TextureID) SubTexture {
	return SubTexture{Texture: tex, UV: text.UVRect{Max: geom.V(1, 1)}}
}

// FromPixels builds a subtexture from pixel coordinates within a sheet.
func FromPixels(tex TextureID, x, y, w, h, sheetW, sheetH int) SubTexture {
	return SubTexture{Texture: tex, UV: text.UVRect{
		Min: geom.V(float32(x)/float32(sheetW), float32(y)/float32(sheetH)),
		Max: geom.V(float32(x+w)/float32(sheetW), float32(y+h)/float32(sheetH)),
	}}
}

// FromGrid builds a subtexture from tile grid coordinates (cx,cy) of cell size (cw,ch).
func FromGrid(tex TextureID, cx, cy, cw, ch, sheetW, sheetH int) SubTexture {
	return FromPixels(tex, cx*cw, cy*ch, cw, ch, sheetW, sheetH)
}
