package core

import (
	"runtime"
	"time"

	"github.com/hubastard/glint/engine/logx"
)

// tick is the fixed update step.
const tick = time.Second / 60

// maxStep caps catch-up updates per frame.
const maxStep = 10

// Run wires the platform window + renderer and executes the main loop.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newRenderer func(Window, Config) (Renderer, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	win, err := newWindow(cfg)
	if err != nil {
		return err
	}

	rend, err := newRenderer(win, cfg)
	if err != nil {
		return err
	}
	defer rend.Shutdown()

	w, h := win.FramebufferSize()
	rend.Resize(w, h)

	eng := &Engine{Window: win, Renderer: rend, Input: NewInput(), Config: cfg, start: time.Now()}
	win.SetEventCallback(func(ev Event) { eng.dispatch(app, ev) })

	app.OnStart(eng)
	logx.L().Info("engine started", "width", w, "height", h, "dpi", eng.Viewport().DPI)

	var (
		accum time.Duration
		prev  = time.Now()
	)
	for !win.ShouldClose() {
		now := time.Now()
		accum += now.Sub(prev)
		prev = now

		// Poll OS events (platform will emit via callbacks)
		win.PollEvents()

		steps := 0
		for accum >= tick && steps < maxStep {
			eng.update(app, tick.Seconds())
			accum -= tick
			steps++
		}
		if steps == maxStep {
			accum = 0
		}
		alpha := float64(accum) / float64(tick)

		rend.Clear(cfg.ClearColor)
		eng.render(app, alpha)

		win.SwapBuffers()
	}

	app.OnShutdown(eng)
	eng.Layers.ForEachReverse(func(l Layer) bool {
		l.OnDetach(eng)
		return false
	})
	logx.L().Info("engine exit", "uptime", eng.Uptime())
	return nil
}

// dispatch feeds ev to the input state, then to layers top-down until one
// handles it, then to the app.
func (e *Engine) dispatch(app App, ev Event) {
	e.Input.Handle(ev)
	if r, ok := ev.(EventResize); ok && r.W > 0 && r.H > 0 {
		fw, fh := e.Window.FramebufferSize()
		if fw > 0 && fh > 0 {
			e.Renderer.Resize(fw, fh)
		}
	}
	handled := false
	e.Layers.ForEachReverse(func(l Layer) bool {
		handled = l.OnEvent(e, ev)
		return handled
	})
	if !handled {
		app.OnEvent(e, ev)
	}
}

func (e *Engine) update(app App, dt float64) {
	app.OnUpdate(e, dt)
	e.Layers.ForEach(func(l Layer) { l.OnUpdate(e, dt) })
}

func (e *Engine) render(app App, alpha float64) {
	e.Layers.ForEach(func(l Layer) { l.OnRender(e, alpha) })
	app.OnRender(e, alpha)
}
