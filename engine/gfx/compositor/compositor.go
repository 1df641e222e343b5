// Package compositor orders and batches point primitives into draw calls.
//
// Every submission carries a Layer. Draws happen in ascending Z, ties
// broken by submission order, whatever the primitive kind. Adjacent
// submissions that share a program, a texture and uniforms are merged
// into one Backend.Draw.
package compositor

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/geom"
	"github.com/hubastard/glint/engine/gfx/expand"
	"github.com/hubastard/glint/engine/gfx/primitive"
	"github.com/hubastard/glint/engine/logx"
	"github.com/hubastard/glint/engine/profiler"
	"github.com/hubastard/glint/engine/text"
)

var (
	ErrNoFrame        = errors.New("compositor: no frame in progress")
	ErrFrameActive    = errors.New("compositor: frame already in progress")
	ErrUnknownTexture = errors.New("compositor: unknown texture")
)

// maxReemit bounds how often text is re-emitted when the atlas repacks
// while glyph points are being produced.
const maxReemit = 3

// Layer places a submission in draw order and space. A nil Frame draws in
// the frame given to BeginFrame. Origin is added to every point.
type Layer struct {
	Z      int32
	Frame  *geom.Frame
	Origin geom.HybridCoord
}

// Statistics captures the counts generated during a compositor frame.
type Statistics struct {
	DrawCalls       int
	GlyphCount      int
	ColoredCount    int
	ProgramSwitches int
	TextureUploads  int
	// Reemits counts text re-emissions caused by atlas repacks.
	Reemits  int
	Degraded bool
}

// TotalVertexCount reports corners emitted by the expansion stage.
func (s Statistics) TotalVertexCount() int { return (s.GlyphCount + s.ColoredCount) * 4 }

type textSubmission struct {
	glyphs []text.PositionedGlyph
	base   geom.HybridCoord
	tint   *colors.Color
}

type item struct {
	z        int32
	program  Program
	texture  TextureID
	uniforms expand.Uniforms
	glyphs   []primitive.GlyphPoint
	colored  []primitive.ColoredPoint
	text     *textSubmission
}

func (it *item) compatible(o *item) bool {
	return it.program == o.program && it.texture == o.texture && it.uniforms == o.uniforms
}

// Compositor owns the glyph atlas for the frames it draws.
type Compositor struct {
	backend Backend
	atlas   *text.Atlas

	frame   geom.Frame
	inFrame bool
	items   []item
	stats   Statistics

	textures map[TextureID]*image.RGBA
	pending  []TextureID
	nextTex  TextureID

	glyphBuf   []primitive.GlyphPoint
	coloredBuf []primitive.ColoredPoint
}

// New creates a compositor drawing through backend with glyphs from atlas.
func New(backend Backend, atlas *text.Atlas) *Compositor {
	return &Compositor{
		backend:  backend,
		atlas:    atlas,
		textures: make(map[TextureID]*image.RGBA),
		nextTex:  AtlasTexture + 1,
	}
}

// Atlas returns the glyph atlas used for text submissions.
func (c *Compositor) Atlas() *text.Atlas { return c.atlas }

// AddTexture registers an RGBA image for sprites. It is uploaded at the
// next EndFrame.
func (c *Compositor) AddTexture(img *image.RGBA) TextureID {
	id := c.nextTex
	c.nextTex++
	c.textures[id] = img
	c.pending = append(c.pending, id)
	return id
}

// ReplaceTexture swaps the pixels of a registered texture.
func (c *Compositor) ReplaceTexture(id TextureID, img *image.RGBA) error {
	if _, ok := c.textures[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, id)
	}
	c.textures[id] = img
	c.pending = append(c.pending, id)
	return nil
}

// BeginFrame starts collecting submissions drawn in frame.
func (c *Compositor) BeginFrame(frame geom.Frame) error {
	if c.inFrame {
		return ErrFrameActive
	}
	c.inFrame = true
	c.frame = frame
	c.items = c.items[:0]
	c.stats = Statistics{}
	c.atlas.BeginFrame()
	return nil
}

func (c *Compositor) uniforms(l Layer) expand.Uniforms {
	f := c.frame
	if l.Frame != nil {
		f = *l.Frame
	}
	return expand.FrameUniforms(f, l.Origin)
}

// SubmitText queues a laid out text. Glyph points are produced at EndFrame
// against the atlas as it is then, so lt.Glyphs must stay untouched until
// the frame ends. A nil tint draws white.
func (c *Compositor) SubmitText(l Layer, lt text.Layout, base geom.HybridCoord, tint *colors.Color) error {
	if !c.inFrame {
		return ErrNoFrame
	}
	if lt.VisibleCount() == 0 {
		return nil
	}
	c.items = append(c.items, item{
		z:        l.Z,
		program:  TexturedAlpha,
		texture:  AtlasTexture,
		uniforms: c.uniforms(l),
		text:     &textSubmission{glyphs: lt.Glyphs, base: base, tint: tint},
	})
	return nil
}

// SubmitShapes queues filled and bordered rectangles.
func (c *Compositor) SubmitShapes(l Layer, shapes ...primitive.Shape) error {
	if !c.inFrame {
		return ErrNoFrame
	}
	defer profiler.Start("compositor.SubmitShapes")()
	var pts []primitive.ColoredPoint
	for _, s := range shapes {
		pts = primitive.AppendShape(pts, s)
	}
	if len(pts) == 0 {
		return nil
	}
	c.items = append(c.items, item{z: l.Z, program: Flat, uniforms: c.uniforms(l), colored: pts})
	return nil
}

// SubmitSprite queues a textured rectangle tinted by tint.
func (c *Compositor) SubmitSprite(l Layer, sub SubTexture, bounds geom.Rect, tint colors.Color) error {
	if !c.inFrame {
		return ErrNoFrame
	}
	if _, ok := c.textures[sub.Texture]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, sub.Texture)
	}
	p := primitive.GlyphPoint{
		UVMin:  sub.UV.Min,
		UVMax:  sub.UV.Max,
		Offset: bounds.Min,
		Size:   bounds.Size(),
		Tint:   tint,
		Tinted: true,
	}
	c.items = append(c.items, item{
		z:        l.Z,
		program:  TexturedRGBA,
		texture:  sub.Texture,
		uniforms: c.uniforms(l),
		glyphs:   []primitive.GlyphPoint{p},
	})
	return nil
}

// EndFrame produces text points, uploads changed textures and issues the
// draw calls in order. A backend error stops the frame.
func (c *Compositor) EndFrame() (Statistics, error) {
	if !c.inFrame {
		return Statistics{}, ErrNoFrame
	}
	c.inFrame = false
	defer profiler.Start("compositor.EndFrame")()

	c.emitText()
	if err := c.upload(); err != nil {
		return c.stats, err
	}

	slices.SortStableFunc(c.items, func(a, b item) int { return cmp.Compare(a.z, b.z) })

	bound := Program(255)
	for i := 0; i < len(c.items); {
		call := DrawCall{
			Program:  c.items[i].program,
			Texture:  c.items[i].texture,
			Uniforms: c.items[i].uniforms,
		}
		c.glyphBuf, c.coloredBuf = c.glyphBuf[:0], c.coloredBuf[:0]
		j := i
		for ; j < len(c.items) && c.items[j].compatible(&c.items[i]); j++ {
			c.glyphBuf = append(c.glyphBuf, c.items[j].glyphs...)
			c.coloredBuf = append(c.coloredBuf, c.items[j].colored...)
		}
		i = j
		call.Glyphs, call.Colored = c.glyphBuf, c.coloredBuf
		if call.Points() == 0 {
			continue
		}
		if call.Program != bound {
			bound = call.Program
			c.stats.ProgramSwitches++
		}
		if err := c.backend.Draw(call); err != nil {
			return c.stats, fmt.Errorf("compositor: draw %s: %w", call.Program, err)
		}
		c.stats.DrawCalls++
		c.stats.GlyphCount += len(call.Glyphs)
		c.stats.ColoredCount += len(call.Colored)
	}

	c.stats.Degraded = c.stats.Degraded || c.atlas.Degraded()
	if c.stats.Degraded {
		logx.L().Warn("frame rendered degraded", "diagnostics", len(c.atlas.Diagnostics()))
	}
	return c.stats, nil
}

// emitText turns every queued text into glyph points. Looking glyphs up can
// grow or repack the atlas, which moves UVs of points already produced, so
// emission repeats until a pass leaves the generation unchanged.
func (c *Compositor) emitText() {
	defer profiler.Start("compositor.emitText")()
	for attempt := 0; ; attempt++ {
		gen := c.atlas.Generation()
		for i := range c.items {
			it := &c.items[i]
			if it.text == nil {
				continue
			}
			it.glyphs = primitive.AppendText(it.glyphs[:0], it.text.glyphs, c.atlas, it.text.base, it.text.tint)
		}
		if c.atlas.Generation() == gen {
			return
		}
		if attempt == maxReemit {
			logx.L().Warn("atlas unstable during text emission", "generation", c.atlas.Generation())
			c.stats.Degraded = true
			return
		}
		c.stats.Reemits++
	}
}

func (c *Compositor) upload() error {
	if c.atlas.Dirty() {
		if err := c.backend.UploadAtlas(c.atlas.Pixels()); err != nil {
			return fmt.Errorf("compositor: upload atlas: %w", err)
		}
		c.atlas.MarkUploaded()
		c.stats.TextureUploads++
	}
	for _, id := range c.pending {
		if err := c.backend.UploadTexture(id, c.textures[id]); err != nil {
			return fmt.Errorf("compositor: upload texture %d: %w", id, err)
		}
		c.stats.TextureUploads++
	}
	c.pending = c.pending[:0]
	return nil
}
