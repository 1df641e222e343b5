package core

import (
	"time"

	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/geom"
)

// App defines the application hooks.
type App interface {
	OnStart(e *Engine)                 // called once after window/renderer init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // render with interpolation alpha [0..1]
	OnEvent(e *Engine, ev Event)       // input/window events
	OnShutdown(e *Engine)              // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Window   Window
	Renderer Renderer
	Layers   LayerStack
	Input    *Input
	Config   Config
	start    time.Time
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Viewport is the current drawable surface at the configured DPI scaled by
// the window's content scale.
func (e *Engine) Viewport() geom.Viewport {
	return WindowViewport(e.Window, e.Config.DPI)
}

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	FramebufferSize() (int, int)
	// ContentScale is the ratio between framebuffer pixels and logical
	// pixels on the current monitor.
	ContentScale() (float32, float32)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// WindowViewport reports w's framebuffer as a viewport. baseDPI applies at
// a content scale of one.
func WindowViewport(w Window, baseDPI float32) geom.Viewport {
	fw, fh := w.FramebufferSize()
	sx, _ := w.ContentScale()
	if sx <= 0 {
		sx = 1
	}
	if baseDPI <= 0 {
		baseDPI = DefaultDPI
	}
	return geom.Viewport{SizePx: geom.V(float32(fw), float32(fh)), DPI: baseDPI * sx}
}

// Renderer is the device side owned by the main loop.
type Renderer interface {
	Resize(w, h int)
	Clear(c colors.Color)
	Shutdown()
}

// Event model.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventContentScale struct{ X, Y float32 }

func (EventContentScale) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

type EventMouseButton struct {
	Button MouseButton
	Down   bool
	Mods   Mod
}

func (EventMouseButton) isEvent() {}

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

// Key/mod enums (subset; add as needed).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyW
	KeyA
	KeyS
	KeyD
	KeyTab
	KeyEnter
	KeyBackspace
	KeyF1
	KeyP
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)
