package ui

import (
	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/geom"
	"github.com/hubastard/glint/engine/gfx/compositor"
	"github.com/hubastard/glint/engine/gfx/primitive"
	"github.com/hubastard/glint/engine/text"
)

// Context carries what widgets need to lay out and draw one frame.
type Context struct {
	Compositor  *compositor.Compositor
	Layouts     *text.LayoutCache
	DefaultFont text.FontID
	FontSize    float32
	// Frame is where the tree is drawn; nil uses the compositor's frame.
	Frame *geom.Frame
	// Viewport is the root box size in points.
	Viewport [2]float32
	// BaseZ is the Z of the first drawn element.
	BaseZ int32

	z   int32
	err error
}

func NewContext(c *compositor.Compositor, font text.FontID, fontSize float32) *Context {
	return &Context{
		Compositor:  c,
		Layouts:     text.NewLayoutCache(0),
		DefaultFont: font,
		FontSize:    fontSize,
	}
}

// SetFrame sizes the root box to f.
func (ctx *Context) SetFrame(f geom.Frame) {
	ctx.Frame = &f
	ctx.Viewport = [2]float32{}
	if f.PtsRatScale.X > 0 && f.PtsRatScale.Y > 0 {
		ctx.Viewport = [2]float32{1 / f.PtsRatScale.X, 1 / f.PtsRatScale.Y}
	}
}

// Render lays out root in the viewport and submits it. The compositor frame
// must be open. The first submission error is returned.
func Render(ctx *Context, root UIElement) error {
	ctx.z = ctx.BaseZ
	ctx.err = nil
	b := root.Node()
	if b.parent == nil {
		b.SetPos(0, 0)
		root.Layout(ctx, Constraints{Max: ctx.Viewport})
	}
	root.Draw(ctx)
	return ctx.err
}

func (ctx *Context) layer() compositor.Layer {
	l := compositor.Layer{Z: ctx.z, Frame: ctx.Frame}
	ctx.z++
	return l
}

func (ctx *Context) submitShape(s primitive.Shape) {
	if ctx.err == nil {
		ctx.err = ctx.Compositor.SubmitShapes(ctx.layer(), s)
	}
}

func (ctx *Context) submitText(lt text.Layout, at geom.HybridCoord, tint colors.Color) {
	if ctx.err == nil {
		ctx.err = ctx.Compositor.SubmitText(ctx.layer(), lt, at, &tint)
	}
}

func (ctx *Context) layoutText(in text.LayoutInput) text.Layout {
	return ctx.Layouts.Layout(ctx.Compositor.Atlas(), in)
}
