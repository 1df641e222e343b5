package main

import (
	"fmt"

	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/core"
	"github.com/hubastard/glint/engine/gfx/compositor"
	"github.com/hubastard/glint/engine/logx"
	"github.com/hubastard/glint/engine/profiler"
	"github.com/hubastard/glint/engine/text"
	"github.com/hubastard/glint/engine/ui"
)

// LayerDebug overlays frame and compositor statistics. F1 toggles it.
type LayerDebug struct {
	comp       *compositor.Compositor
	font       text.FontID
	stats      *compositor.Statistics
	world      *Layer2D
	profileOut string

	ctx           *ui.Context
	reset         *ui.UIButton
	hidden        bool
	frameDuration float32
	tick          int
}

func (l *LayerDebug) OnAttach(e *core.Engine) {
	l.ctx = ui.NewContext(l.comp, l.font, e.Config.FontSize)
	l.reset = ui.Button("Reset camera").OnClick(l.world.ResetCamera)
}

func (l *LayerDebug) OnDetach(e *core.Engine) {}

func (l *LayerDebug) OnUpdate(e *core.Engine, dt float64) {}

func (l *LayerDebug) OnRender(e *core.Engine, alpha float64) {
	if l.hidden {
		return
	}
	defer profiler.Start("LayerDebug.OnRender")()

	frame := e.Viewport().Frame()
	l.ctx.SetFrame(frame)
	if err := l.comp.BeginFrame(frame); err != nil {
		logx.L().Error("begin frame", "err", err)
		return
	}
	if err := ui.Render(l.ctx, l.tree()); err != nil {
		logx.L().Error("debug overlay", "err", err)
	}
	if _, err := l.comp.EndFrame(); err != nil {
		logx.L().Error("debug overlay", "err", err)
	}
}

func (l *LayerDebug) tree() ui.UIElement {
	s := *l.stats
	rt := profiler.ReadRuntime()
	atlas := l.comp.Atlas()
	heading := func(title string) *ui.UILabel { return ui.Label(title).Padding4(0, 12, 0, 0).TextColor(colors.Yellow) }
	fps := float32(0)
	if l.frameDuration > 0 {
		fps = 1000 / l.frameDuration
	}
	degraded := ""
	if s.Degraded || atlas.Degraded() {
		degraded = " (degraded)"
	}
	return ui.View(
		ui.View(
			heading(fmt.Sprintf("Frame: %d", l.tick)),
			ui.Label(fmt.Sprintf("\t%2.3f ms (%.2f FPS)", l.frameDuration, fps)),
			heading("Compositor"+degraded),
			ui.Label(fmt.Sprintf("\tDraw Calls: %d", s.DrawCalls)),
			ui.Label(fmt.Sprintf("\tGlyphs: %d  Shapes: %d", s.GlyphCount, s.ColoredCount)),
			ui.Label(fmt.Sprintf("\tVertices: %d", s.TotalVertexCount())),
			ui.Label(fmt.Sprintf("\tProgram Switches: %d", s.ProgramSwitches)),
			ui.Label(fmt.Sprintf("\tUploads: %d  Re-emits: %d", s.TextureUploads, s.Reemits)),
			heading("Atlas"),
			ui.Label(fmt.Sprintf("\tGlyphs: %d  Generation: %d", atlas.Len(), atlas.Generation())),
			ui.Label(fmt.Sprintf("\tSize: %dpx", atlas.Pixels().Bounds().Dx())),
			heading("Memory"),
			ui.Label(fmt.Sprintf("\tUsage: %.3f MB", float32(rt.HeapAlloc)/(1<<20))),
			ui.Label(fmt.Sprintf("\tAllocs: %d", rt.Mallocs)),
			ui.Label(fmt.Sprintf("\tGoroutines: %d  CPUs: %d", rt.Goroutines, rt.CPUs)),
			l.reset,
		).
			Gap(2).
			Padding(16).
			BgColor(colors.Black.WithAlpha(0.5)),
	).
		Padding(16).
		AlignCross(ui.AlignStart)
}

func (l *LayerDebug) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventKey:
		if !v.Down {
			return false
		}
		switch {
		case v.Key == core.KeyF1:
			l.hidden = !l.hidden
			return true
		case v.Key == core.KeyP && v.Mods&core.ModCtrl != 0:
			if err := profiler.Dump(l.profileOut); err != nil {
				logx.L().Warn("profile dump failed", "err", err)
			} else {
				logx.L().Info("profile written", "path", l.profileOut)
			}
			return true
		}
	case core.EventMouseButton:
		if l.hidden || !v.Down || v.Button != core.MouseLeft {
			return false
		}
		// Cursor positions are framebuffer pixels; the tree is laid out in points.
		mx, my := e.Input.Mouse()
		ppp := e.Viewport().PixelsPerPoint()
		return l.reset.Click(float32(mx)/ppp, float32(my)/ppp)
	}
	return false
}
