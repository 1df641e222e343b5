// Command glintdump lays out text offscreen and writes the result as a PNG,
// printing the compositor statistics for the frame.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/hubastard/glint/engine/assets"
	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/core"
	"github.com/hubastard/glint/engine/gfx/compositor"
	"github.com/hubastard/glint/engine/gfx/soft"
	"github.com/hubastard/glint/engine/logx"
	"github.com/hubastard/glint/engine/text"
	"github.com/hubastard/glint/engine/ui"
)

type options struct {
	config   string
	out      string
	text     string
	font     string
	outline  bool
	width    int
	height   int
	dpi      float32
	size     float32
	maxWidth float32
}

// report is what glintdump prints after drawing.
type report struct {
	Output          string  `yaml:"output"`
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Lines           int     `yaml:"lines"`
	DrawCalls       int     `yaml:"draw_calls"`
	Glyphs          int     `yaml:"glyphs"`
	Shapes          int     `yaml:"shapes"`
	Vertices        int     `yaml:"vertices"`
	ProgramSwitches int     `yaml:"program_switches"`
	Uploads         int     `yaml:"uploads"`
	Reemits         int     `yaml:"reemits"`
	Degraded        bool    `yaml:"degraded"`
	AtlasGlyphs     int     `yaml:"atlas_glyphs"`
	AtlasGeneration uint64  `yaml:"atlas_generation"`
	PixelsPerPoint  float32 `yaml:"pixels_per_point"`
	Diagnostics     int     `yaml:"diagnostics"`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "glintdump:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var o options
	fl := pflag.NewFlagSet("glintdump", pflag.ContinueOnError)
	fl.SetOutput(stderr)
	fl.StringVarP(&o.config, "config", "c", "", "YAML config file")
	fl.StringVarP(&o.out, "out", "o", "glint.png", "PNG output path")
	fl.StringVarP(&o.text, "text", "t", "", "text to draw, read from stdin when empty")
	fl.StringVar(&o.font, "font", "", "OpenType font file, Go Regular when empty")
	fl.BoolVar(&o.outline, "outline", false, "rasterize outlines with go-text instead of x/image")
	fl.IntVar(&o.width, "width", 0, "image width in pixels, config width when zero")
	fl.IntVar(&o.height, "height", 0, "image height in pixels, config height when zero")
	fl.Float32Var(&o.dpi, "dpi", 0, "points per inch, config dpi when zero")
	fl.Float32VarP(&o.size, "size", "s", 0, "font size in points, config font size when zero")
	fl.Float32Var(&o.maxWidth, "max-width", 0, "wrap width in points, the image width when zero")
	if err := fl.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	logger, err := logx.NewText(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	logx.SetLogger(logger)
	defer logx.SetLogger(nil)

	if o.text == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read text: %w", err)
		}
		o.text = strings.TrimRight(string(b), "\n")
	}

	face, err := loadFace(o)
	if err != nil {
		return err
	}
	r := soft.New(cfg.Width, cfg.Height)
	r.Clear(cfg.ClearColor)
	vp := r.Viewport(cfg.DPI)
	cfg.Atlas.PixelsPerPoint = vp.PixelsPerPoint()
	atlas := text.NewAtlas(cfg.Atlas)
	font := atlas.AddFace(face)
	comp := compositor.New(r, atlas)
	frame := vp.Frame()

	ctx := ui.NewContext(comp, font, cfg.FontSize)
	ctx.SetFrame(frame)
	label := ui.Label(o.text).TextColor(colors.White)
	if o.maxWidth > 0 {
		label.MaxWidth(o.maxWidth)
	} else {
		label.Wrap(true)
	}
	root := ui.View(
		ui.View(label).Padding(12).BgColor(colors.Black.WithAlpha(0.6)).Border(1, colors.Gray),
	).Padding(16).WidthExpand().HeightExpand()

	if err := comp.BeginFrame(frame); err != nil {
		return err
	}
	if err := ui.Render(ctx, root); err != nil {
		return err
	}
	stats, err := comp.EndFrame()
	if err != nil {
		return err
	}

	if err := writePNG(o.out, r); err != nil {
		return err
	}

	lt := label.TextLayout()
	rep := report{
		Output:          o.out,
		Width:           cfg.Width,
		Height:          cfg.Height,
		Lines:           lt.Lines,
		DrawCalls:       stats.DrawCalls,
		Glyphs:          stats.GlyphCount,
		Shapes:          stats.ColoredCount,
		Vertices:        stats.TotalVertexCount(),
		ProgramSwitches: stats.ProgramSwitches,
		Uploads:         stats.TextureUploads,
		Reemits:         stats.Reemits,
		Degraded:        stats.Degraded || atlas.Degraded(),
		AtlasGlyphs:     atlas.Len(),
		AtlasGeneration: atlas.Generation(),
		PixelsPerPoint:  atlas.Config().PixelsPerPoint,
		Diagnostics:     len(lt.Diagnostics) + len(atlas.Diagnostics()),
	}
	enc := yaml.NewEncoder(stdout)
	defer enc.Close()
	return enc.Encode(rep)
}

func loadConfig(o options) (core.Config, error) {
	cfg := core.DefaultConfig()
	cfg.Width, cfg.Height = 640, 360
	if o.config != "" {
		var err error
		if cfg, err = core.LoadConfig(o.config); err != nil {
			return core.Config{}, err
		}
	}
	if o.width > 0 {
		cfg.Width = o.width
	}
	if o.height > 0 {
		cfg.Height = o.height
	}
	if o.dpi > 0 {
		cfg.DPI = o.dpi
	}
	if o.size > 0 {
		cfg.FontSize = o.size
	}
	return cfg, cfg.Validate()
}

func loadFace(o options) (text.Face, error) {
	switch {
	case o.font == "" && o.outline:
		return assets.DefaultOutlineFont()
	case o.font == "":
		return assets.DefaultFont()
	case o.outline:
		return text.LoadGoText(o.font)
	default:
		return text.LoadOpenType(o.font)
	}
}

func writePNG(path string, r *soft.Renderer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WritePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %q: %w", path, err)
	}
	return f.Close()
}
