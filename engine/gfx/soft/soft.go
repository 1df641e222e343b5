// Package soft is a CPU backend for the compositor. It runs the expansion
// stage in Go and fills the resulting quads into an RGBA image.
package soft

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/chewxy/math32"
	"golang.org/x/image/vector"

	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/geom"
	"github.com/hubastard/glint/engine/gfx/compositor"
	"github.com/hubastard/glint/engine/gfx/expand"
)

// Renderer draws into an in-memory image.
type Renderer struct {
	target   *image.RGBA
	atlas    *image.Alpha
	textures map[compositor.TextureID]*image.RGBA
	rast     *vector.Rasterizer
	quads    int
}

var _ compositor.Backend = (*Renderer)(nil)

// New creates a renderer with a transparent w×h target.
func New(w, h int) *Renderer {
	return &Renderer{
		target:   image.NewRGBA(image.Rect(0, 0, w, h)),
		textures: make(map[compositor.TextureID]*image.RGBA),
		rast:     vector.NewRasterizer(w, h),
	}
}

// Target is the image drawn into.
func (r *Renderer) Target() *image.RGBA { return r.target }

// Viewport describes the target at the given DPI.
func (r *Renderer) Viewport(dpi float32) geom.Viewport {
	b := r.target.Bounds()
	return geom.Viewport{SizePx: geom.V(float32(b.Dx()), float32(b.Dy())), DPI: dpi}
}

// Quads is the number of quads filled since the last Clear.
func (r *Renderer) Quads() int { return r.quads }

// Clear fills the target with c.
func (r *Renderer) Clear(c colors.Color) {
	px := premul(c)
	for i := 0; i < len(r.target.Pix); i += 4 {
		copy(r.target.Pix[i:i+4], px[:])
	}
	r.quads = 0
}

// UploadAtlas copies img; the atlas keeps mutating it between frames.
func (r *Renderer) UploadAtlas(img *image.Alpha) error {
	cp := image.NewAlpha(img.Bounds())
	copy(cp.Pix, img.Pix)
	r.atlas = cp
	return nil
}

func (r *Renderer) UploadTexture(id compositor.TextureID, img *image.RGBA) error {
	cp := image.NewRGBA(img.Bounds())
	copy(cp.Pix, img.Pix)
	r.textures[id] = cp
	return nil
}

func (r *Renderer) Draw(call compositor.DrawCall) error {
	switch call.Program {
	case compositor.TexturedAlpha:
		if r.atlas == nil {
			return fmt.Errorf("soft: atlas not uploaded")
		}
		for _, p := range call.Glyphs {
			r.fill(expand.Glyph(p, call.Uniforms), func(uv geom.Vec2, tint colors.Color) colors.Color {
				return expand.ShadeAlpha(sampleAlpha(r.atlas, uv), tint)
			})
		}
	case compositor.TexturedRGBA:
		tex, ok := r.textures[call.Texture]
		if !ok {
			return fmt.Errorf("%w: %d", compositor.ErrUnknownTexture, call.Texture)
		}
		for _, p := range call.Glyphs {
			r.fill(expand.Glyph(p, call.Uniforms), func(uv geom.Vec2, tint colors.Color) colors.Color {
				return expand.ShadeRGBA(sampleRGBA(tex, uv), tint)
			})
		}
	case compositor.Flat:
		for _, p := range call.Colored {
			r.fill(expand.Colored(p, call.Uniforms), func(_ geom.Vec2, c colors.Color) colors.Color { return c })
		}
	default:
		return fmt.Errorf("soft: unsupported program %s", call.Program)
	}
	return nil
}

// WritePNG encodes the target.
func (r *Renderer) WritePNG(w io.Writer) error {
	return png.Encode(w, r.target)
}

func (r *Renderer) toPixels(ndc geom.Vec2) geom.Vec2 {
	b := r.target.Bounds()
	return geom.V((ndc.X+1)*0.5*float32(b.Dx()), (1-ndc.Y)*0.5*float32(b.Dy()))
}

// fill covers the parallelogram spanned by the corners. Coverage comes from
// the vector rasterizer; UVs are recovered per pixel center from the
// inverse of the quad's edge basis.
func (r *Renderer) fill(c [4]expand.Corner, shade func(uv geom.Vec2, color colors.Color) colors.Color) {
	var px [4]geom.Vec2
	for i := range c {
		px[i] = r.toPixels(c[i].Pos)
	}
	ul := px[expand.UpLeft]
	ex := px[expand.UpRight].Sub(ul)
	ey := px[expand.LowLeft].Sub(ul)
	det := ex.Cross(ey)
	if det == 0 || math32.IsNaN(det) {
		return
	}

	minX, minY := math32.Inf(1), math32.Inf(1)
	maxX, maxY := math32.Inf(-1), math32.Inf(-1)
	for _, p := range px {
		minX, maxX = math32.Min(minX, p.X), math32.Max(maxX, p.X)
		minY, maxY = math32.Min(minY, p.Y), math32.Max(maxY, p.Y)
	}
	bounds := image.Rect(int(math32.Floor(minX)), int(math32.Floor(minY)), int(math32.Ceil(maxX)), int(math32.Ceil(maxY))).
		Intersect(r.target.Bounds())
	if bounds.Empty() {
		return
	}
	r.quads++

	org := geom.V(float32(bounds.Min.X), float32(bounds.Min.Y))
	r.rast.Reset(bounds.Dx(), bounds.Dy())
	move := func(p geom.Vec2) (float32, float32) { q := p.Sub(org); return q.X, q.Y }
	r.rast.MoveTo(move(px[expand.UpRight]))
	r.rast.LineTo(move(px[expand.UpLeft]))
	r.rast.LineTo(move(px[expand.LowLeft]))
	r.rast.LineTo(move(px[expand.LowRight]))
	r.rast.ClosePath()
	mask := image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	r.rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	uvUL := c[expand.UpLeft].UV
	uvX := c[expand.UpRight].UV.Sub(uvUL)
	uvY := c[expand.LowLeft].UV.Sub(uvUL)
	color := c[expand.UpLeft].Color

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			cov := mask.Pix[y*mask.Stride+x]
			if cov == 0 {
				continue
			}
			d := geom.V(org.X+float32(x)+0.5, org.Y+float32(y)+0.5).Sub(ul)
			s := clamp01(d.Cross(ey) / det)
			t := clamp01(ex.Cross(d) / det)
			uv := uvUL.Add(uvX.Scale(s)).Add(uvY.Scale(t))
			src := shade(uv, color)
			src[3] *= float32(cov) / 255
			r.blend(bounds.Min.X+x, bounds.Min.Y+y, src)
		}
	}
}

// blend composites straight-alpha src over the premultiplied target.
func (r *Renderer) blend(x, y int, src colors.Color) {
	a := clamp01(src[3])
	if a == 0 {
		return
	}
	i := r.target.PixOffset(x, y)
	dst := r.target.Pix[i : i+4 : i+4]
	for k := 0; k < 3; k++ {
		v := clamp01(src[k])*a + float32(dst[k])/255*(1-a)
		dst[k] = uint8(v*255 + 0.5)
	}
	dst[3] = uint8((a+float32(dst[3])/255*(1-a))*255 + 0.5)
}

func sampleAlpha(img *image.Alpha, uv geom.Vec2) float32 {
	x, y := texel(img.Bounds(), uv)
	return float32(img.Pix[img.PixOffset(x, y)]) / 255
}

func sampleRGBA(img *image.RGBA, uv geom.Vec2) colors.Color {
	x, y := texel(img.Bounds(), uv)
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	if p[3] == 0 {
		return colors.Color{}
	}
	a := float32(p[3]) / 255
	c := colors.FromRGBA8(p[0], p[1], p[2], p[3])
	return colors.Color{c[0] / a, c[1] / a, c[2] / a, a}
}

// texel picks the nearest texel, clamping to the edge.
func texel(b image.Rectangle, uv geom.Vec2) (int, int) {
	x := b.Min.X + int(math32.Floor(uv.X*float32(b.Dx())))
	y := b.Min.Y + int(math32.Floor(uv.Y*float32(b.Dy())))
	return min(max(x, b.Min.X), b.Max.X-1), min(max(y, b.Min.Y), b.Max.Y-1)
}

func premul(c colors.Color) [4]uint8 {
	a := clamp01(c[3])
	return colors.Color{c[0] * a, c[1] * a, c[2] * a, a}.RGBA8()
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
