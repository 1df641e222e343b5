package main

import (
	"errors"
	"image"
	"image/color"
	"io/fs"

	"github.com/chewxy/math32"

	"github.com/hubastard/glint/engine/assets"
	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/core"
	"github.com/hubastard/glint/engine/geom"
	"github.com/hubastard/glint/engine/gfx/compositor"
	"github.com/hubastard/glint/engine/gfx/primitive"
	"github.com/hubastard/glint/engine/logx"
	"github.com/hubastard/glint/engine/profiler"
	"github.com/hubastard/glint/engine/scene"
	"github.com/hubastard/glint/engine/text"
)

const tileCount = 8

// Layer2D draws a pannable board of tiles with a sprite and a caption.
type Layer2D struct {
	comp   *compositor.Compositor
	loader *assets.Loader
	font   text.FontID
	stats  *compositor.Statistics

	cam     *scene.Camera2D
	ctrl    *scene.CameraController2D
	layouts *text.LayoutCache
	player  compositor.SubTexture
	t       float32
}

func (l *Layer2D) OnAttach(e *core.Engine) {
	l.cam = scene.NewCamera2D()
	l.ctrl = scene.NewCameraController2D(l.cam)
	l.layouts = text.NewLayoutCache(64)

	img, err := l.loader.LoadRGBA("player.png")
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logx.L().Warn("sprite load failed", "err", err)
		}
		img = checker(32, 4)
	}
	b := img.Bounds()
	tex := l.comp.AddTexture(img)
	l.player = compositor.FromPixels(tex, 0, 0, min(32, b.Dx()), min(32, b.Dy()), b.Dx(), b.Dy())
}

func (l *Layer2D) OnDetach(e *core.Engine) {}

func (l *Layer2D) OnUpdate(e *core.Engine, dt float64) {
	l.ctrl.Update(e.Input, dt)
	l.t += float32(dt)
}

// ResetCamera returns the view to its starting pan and zoom.
func (l *Layer2D) ResetCamera() { *l.cam = *scene.NewCamera2D() }

func (l *Layer2D) OnRender(e *core.Engine, alpha float64) {
	defer profiler.Start("Layer2D.OnRender")()

	world := l.cam.Apply(e.Viewport().Frame())
	if err := l.comp.BeginFrame(world); err != nil {
		logx.L().Error("begin frame", "err", err)
		return
	}

	// The board fills the middle of the window; tile sizes are ratios of it.
	board := world.WithRect(geom.Rect{Min: geom.Ratio(0.1, 0.1), Max: geom.Ratio(0.9, 0.9)})
	boardLayer := compositor.Layer{Z: 0, Frame: &board}
	shapes := make([]primitive.Shape, 0, tileCount*tileCount)
	step := float32(1) / tileCount
	for y := range tileCount {
		for x := range tileCount {
			c := colors.Gray
			if (x+y)%2 == 0 {
				c = colors.DarkGray
			}
			at := geom.Ratio(float32(x)*step, float32(y)*step)
			shapes = append(shapes, primitive.Shape{
				Bounds:      geom.Rect{Min: at, Max: at.Add(geom.Ratio(step, step))},
				Fill:        c,
				BorderWidth: 1,
				BorderColor: colors.Black.WithAlpha(0.4),
			})
		}
	}
	l.report(l.comp.SubmitShapes(boardLayer, shapes...))

	// The sprite bobs around the board center at a fixed point size.
	center := geom.Hybrid(0.5, 0.5, 0, 8*math32.Sin(l.t*2))
	sprite := geom.Rect{Min: center.AddPoints(geom.V(-32, -32)), Max: center.AddPoints(geom.V(32, 32))}
	l.report(l.comp.SubmitSprite(compositor.Layer{Z: 1, Frame: &board}, l.player, sprite, colors.White))

	caption := l.layouts.Layout(l.comp.Atlas(), text.LayoutInput{
		Text: "WASD to pan, wheel to zoom",
		Font: l.font,
		Size: 24,
	})
	tint := colors.White
	l.report(l.comp.SubmitText(compositor.Layer{Z: 2, Frame: &board, Origin: geom.Hybrid(0, 1, 0, 32)}, caption, geom.HybridCoord{}, &tint))

	stats, err := l.comp.EndFrame()
	l.report(err)
	*l.stats = stats
}

func (l *Layer2D) report(err error) {
	if err != nil {
		logx.L().Error("2d layer submit", "err", err)
	}
}

func (l *Layer2D) OnEvent(e *core.Engine, ev core.Event) bool { return false }

// checker builds a two-tone placeholder sprite.
func checker(size, cells int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := size / cells
	for y := range size {
		for x := range size {
			c := color.RGBA{R: 230, G: 120, B: 40, A: 255}
			if (x/cell+y/cell)%2 == 0 {
				c = color.RGBA{R: 250, G: 220, B: 90, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
