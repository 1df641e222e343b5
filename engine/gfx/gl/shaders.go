package glbackend

import (
	"errors"
	"io/fs"

	"github.com/hubastard/glint/engine/gfx/expand"
)

// Shaders holds the GLSL sources of the three programs.
type Shaders struct {
	GlyphVertex     string
	GlyphGeometry   string
	AlphaFragment   string
	RGBAFragment    string
	ColoredVertex   string
	ColoredGeometry string
	FlatFragment    string
}

// DefaultShaders are the built-in sources.
func DefaultShaders() Shaders {
	return Shaders{
		GlyphVertex:     expand.GlyphVertexSource,
		GlyphGeometry:   expand.GlyphGeometrySource,
		AlphaFragment:   expand.AlphaFragmentSource,
		RGBAFragment:    expand.RGBAFragmentSource,
		ColoredVertex:   expand.ColoredVertexSource,
		ColoredGeometry: expand.ColoredGeometrySource,
		FlatFragment:    expand.FlatFragmentSource,
	}
}

// ShaderLoader reads a shader file by name.
type ShaderLoader interface {
	LoadShader(name string) (string, error)
}

// Override replaces sources for which l has a file. Missing files keep the
// current source; any other error is returned.
func (s Shaders) Override(l ShaderLoader) (Shaders, error) {
	for name, dst := range s.files() {
		src, err := l.LoadShader(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return s, err
		}
		*dst = src
	}
	return s, nil
}

func (s *Shaders) files() map[string]*string {
	return map[string]*string{
		"glyph.vert":   &s.GlyphVertex,
		"glyph.geom":   &s.GlyphGeometry,
		"alpha.frag":   &s.AlphaFragment,
		"rgba.frag":    &s.RGBAFragment,
		"colored.vert": &s.ColoredVertex,
		"colored.geom": &s.ColoredGeometry,
		"flat.frag":    &s.FlatFragment,
	}
}

// cstr terminates src for gl.Strs.
func cstr(src string) string {
	if len(src) > 0 && src[len(src)-1] == 0 {
		return src
	}
	return src + "\x00"
}
