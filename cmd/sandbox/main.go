package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/hubastard/glint/engine/assets"
	"github.com/hubastard/glint/engine/core"
	"github.com/hubastard/glint/engine/gfx/compositor"
	glbackend "github.com/hubastard/glint/engine/gfx/gl"
	"github.com/hubastard/glint/engine/logx"
	"github.com/hubastard/glint/engine/platform"
	"github.com/hubastard/glint/engine/profiler"
	"github.com/hubastard/glint/engine/text"
)

type App struct {
	loader     *assets.Loader
	gl         *glbackend.RendererGL
	comp       *compositor.Compositor
	font       text.FontID
	profileOut string
	lastFrame  time.Time
	tick       int
	stats      compositor.Statistics
	layer      *Layer2D
	debugLayer *LayerDebug
}

func (a *App) OnStart(e *core.Engine) {
	profiler.Init(1 << 16)

	atlasCfg := e.Config.Atlas
	atlasCfg.PixelsPerPoint = e.Viewport().PixelsPerPoint()
	atlas := text.NewAtlas(atlasCfg)
	face, err := a.loadFont(e.Config.Font)
	if err != nil {
		logx.L().Error("font load failed, using Go Regular", "font", e.Config.Font, "err", err)
		if face, err = assets.DefaultFont(); err != nil {
			panic(err)
		}
	}
	a.font = atlas.AddFace(face)
	a.comp = compositor.New(a.gl, atlas)

	a.layer = &Layer2D{comp: a.comp, loader: a.loader, font: a.font, stats: &a.stats}
	e.Layers.Push(e, a.layer)

	a.debugLayer = &LayerDebug{comp: a.comp, font: a.font, stats: &a.stats, world: a.layer, profileOut: a.profileOut}
	e.Layers.Push(e, a.debugLayer)
}

func (a *App) loadFont(name string) (text.Face, error) {
	if name == "" {
		return assets.DefaultFont()
	}
	return a.loader.LoadFont(name)
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	// Follows the window across displays with different DPI.
	a.comp.Atlas().SetPixelsPerPoint(e.Viewport().PixelsPerPoint())
	a.tick++
	now := time.Now()
	if !a.lastFrame.IsZero() {
		a.debugLayer.frameDuration = float32(now.Sub(a.lastFrame).Seconds() * 1000)
		a.debugLayer.tick = a.tick
	}
	a.lastFrame = now
}

func (a *App) OnRender(e *core.Engine, alpha float64) {}
func (a *App) OnEvent(e *core.Engine, ev core.Event)  {}
func (a *App) OnShutdown(e *core.Engine)              {}

func main() {
	var (
		configPath string
		profileOut string
	)
	pflag.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pflag.StringVar(&profileOut, "profile-out", "glint.speedscope.json", "where Ctrl+P writes the profile")
	pflag.Parse()

	cfg := core.DefaultConfig()
	cfg.Title = "glint sandbox"
	if configPath != "" {
		var err error
		if cfg, err = core.LoadConfig(configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	logger, err := logx.NewText(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logx.SetLogger(logger)

	app := &App{loader: assets.NewLoader(cfg.AssetRoot), profileOut: profileOut}

	var win *platform.GLFWWindow
	newWindow := func(cfg core.Config) (core.Window, error) {
		w, err := platform.NewGLFWWindow(cfg, nil)
		win = w
		return w, err
	}
	newRenderer := func(_ core.Window, _ core.Config) (core.Renderer, error) {
		shaders, err := glbackend.DefaultShaders().Override(app.loader)
		if err != nil {
			return nil, err
		}
		app.gl, err = glbackend.NewRendererGL(shaders)
		return app.gl, err
	}

	err = core.Run(app, cfg, newWindow, newRenderer)
	if win != nil {
		win.Destroy()
	}
	if err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}
