// Package assets loads fonts, shader overrides and textures from an asset
// directory laid out as fonts/, shaders/ and textures/.
package assets

import (
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path"

	"golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/hubastard/glint/engine/text"
)

type Loader struct {
	fsys fs.FS
}

// NewLoader reads assets below root.
func NewLoader(root string) *Loader { return &Loader{fsys: os.DirFS(root)} }

// FromFS reads assets from fsys.
func FromFS(fsys fs.FS) *Loader { return &Loader{fsys: fsys} }

// LoadRGBA decodes textures/name into a tightly packed RGBA image with a
// top-left origin.
func (l *Loader) LoadRGBA(name string) (*image.RGBA, error) {
	p := path.Join("textures", name)
	f, err := l.fsys.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", p, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode png %q: %w", p, err)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if m, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && m.Stride == b.Dx()*4 {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// LoadShader reads shaders/name.
func (l *Loader) LoadShader(name string) (string, error) {
	p := path.Join("shaders", name)
	b, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	return string(b), nil
}

// LoadFont parses fonts/name with the bitmap rasterizer of x/image.
func (l *Loader) LoadFont(name string) (*text.OpenTypeFace, error) {
	b, err := fs.ReadFile(l.fsys, path.Join("fonts", name))
	if err != nil {
		return nil, fmt.Errorf("load font %q: %w", name, err)
	}
	return text.ParseOpenType(name, b)
}

// LoadOutlineFont parses fonts/name with the go-text outline rasterizer.
func (l *Loader) LoadOutlineFont(name string) (*text.GoTextFace, error) {
	b, err := fs.ReadFile(l.fsys, path.Join("fonts", name))
	if err != nil {
		return nil, fmt.Errorf("load font %q: %w", name, err)
	}
	return text.ParseGoText(name, b)
}

// DefaultFont is Go Regular.
func DefaultFont() (*text.OpenTypeFace, error) {
	return text.ParseOpenType("goregular", goregular.TTF)
}

// DefaultOutlineFont is Go Regular rasterized from outlines with go-text.
func DefaultOutlineFont() (*text.GoTextFace, error) {
	return text.ParseGoText("goregular", goregular.TTF)
}
