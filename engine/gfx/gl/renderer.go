// Package glbackend draws compositor batches with OpenGL 3.3. Points are
// uploaded as-is and expanded into quads by geometry shaders.
package glbackend

import (
	"fmt"
	"image"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"golang.org/x/image/draw"

	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/core"
	"github.com/hubastard/glint/engine/gfx/compositor"
	"github.com/hubastard/glint/engine/gfx/primitive"
	"github.com/hubastard/glint/engine/logx"
)

type program struct {
	id          uint32
	transform   int32
	ptsRatScale int32
	base        int32
	tex         int32
}

type pointBuffer struct {
	vao, vbo uint32
	capBytes int
}

type RendererGL struct {
	programs [3]program // indexed by compositor.Program
	glyphs   pointBuffer
	colored  pointBuffer

	atlas     uint32
	atlasSize image.Point
	textures  map[compositor.TextureID]uint32

	floats []float32
}

var (
	_ compositor.Backend = (*RendererGL)(nil)
	_ core.Renderer      = (*RendererGL)(nil)
)

// NewRendererGL compiles the programs. A GL context must be current.
func NewRendererGL(shaders Shaders) (*RendererGL, error) {
	r := &RendererGL{textures: make(map[compositor.TextureID]uint32)}
	if err := r.init(shaders); err != nil {
		r.Shutdown()
		return nil, err
	}
	return r, nil
}

func (r *RendererGL) init(s Shaders) error {
	srcs := [3][3]string{
		compositor.TexturedAlpha: {s.GlyphVertex, s.GlyphGeometry, s.AlphaFragment},
		compositor.TexturedRGBA:  {s.GlyphVertex, s.GlyphGeometry, s.RGBAFragment},
		compositor.Flat:          {s.ColoredVertex, s.ColoredGeometry, s.FlatFragment},
	}
	for i, src := range srcs {
		id, err := makeProgram(src[0], src[1], src[2])
		if err != nil {
			return fmt.Errorf("program %s: %w", compositor.Program(i), err)
		}
		r.programs[i] = program{
			id:          id,
			transform:   uniform(id, "uTransform"),
			ptsRatScale: uniform(id, "uPtsRatScale"),
			base:        uniform(id, "uBase"),
			tex:         uniform(id, "uTex"),
		}
	}
	r.glyphs = newPointBuffer(primitive.GlyphLayout)
	r.colored = newPointBuffer(primitive.ColoredLayout)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return nil
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

func newPointBuffer(layout core.VertexLayout) pointBuffer {
	var b pointBuffer
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	for _, a := range layout.Attributes {
		gl.EnableVertexAttribArray(uint32(a.Location))
		gl.VertexAttribPointer(uint32(a.Location), int32(a.Size), gl.FLOAT, false, int32(layout.Stride), unsafe.Pointer(uintptr(a.Offset)))
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b
}

// upload streams floats into b, growing the buffer when needed.
func (b *pointBuffer) upload(floats []float32) {
	n := len(floats) * 4
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if n > b.capBytes {
		b.capBytes = max(n, 2*b.capBytes)
		gl.BufferData(gl.ARRAY_BUFFER, b.capBytes, nil, gl.STREAM_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, n, gl.Ptr(floats))
}

func (r *RendererGL) Shutdown() {
	for _, b := range []*pointBuffer{&r.glyphs, &r.colored} {
		if b.vbo != 0 {
			gl.DeleteBuffers(1, &b.vbo)
		}
		if b.vao != 0 {
			gl.DeleteVertexArrays(1, &b.vao)
		}
	}
	for i := range r.programs {
		if r.programs[i].id != 0 {
			gl.DeleteProgram(r.programs[i].id)
			r.programs[i].id = 0
		}
	}
	if r.atlas != 0 {
		gl.DeleteTextures(1, &r.atlas)
	}
	for id, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
		delete(r.textures, id)
	}
}

func (r *RendererGL) Resize(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Clear(c colors.Color) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// UploadAtlas stores img in a single channel texture. A size change
// reallocates it.
func (r *RendererGL) UploadAtlas(img *image.Alpha) error {
	size := img.Bounds().Size()
	if r.atlas == 0 {
		gl.GenTextures(1, &r.atlas)
	}
	gl.BindTexture(gl.TEXTURE_2D, r.atlas)
	if size != r.atlasSize {
		setFilters(gl.NEAREST)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(size.X), int32(size.Y), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		r.atlasSize = size
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(size.X), int32(size.Y), gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}
	logx.L().Debug("atlas uploaded", "width", size.X, "height", size.Y)
	return glError("upload atlas")
}

// UploadTexture stores img with straight alpha, as blending expects.
func (r *RendererGL) UploadTexture(id compositor.TextureID, img *image.RGBA) error {
	b := img.Bounds()
	straight := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(straight, straight.Bounds(), img, b.Min, draw.Src)

	tex, ok := r.textures[id]
	if !ok {
		gl.GenTextures(1, &tex)
		r.textures[id] = tex
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	setFilters(gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(straight.Pix))
	return glError("upload texture")
}

func setFilters(filter int32) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

func (r *RendererGL) Draw(call compositor.DrawCall) error {
	if int(call.Program) >= len(r.programs) {
		return fmt.Errorf("unsupported program %s", call.Program)
	}
	p := r.programs[call.Program]
	gl.UseProgram(p.id)

	u := call.Uniforms
	m := u.Transform.Mat3()
	gl.UniformMatrix3fv(p.transform, 1, false, &m[0])
	gl.Uniform2f(p.ptsRatScale, u.PtsRatScale.X, u.PtsRatScale.Y)
	gl.Uniform4f(p.base, u.Base.Ratio.X, u.Base.Ratio.Y, u.Base.Points.X, u.Base.Points.Y)

	var buf *pointBuffer
	var n int
	switch call.Program {
	case compositor.TexturedAlpha, compositor.TexturedRGBA:
		tex := r.atlas
		if call.Program == compositor.TexturedRGBA {
			var ok bool
			if tex, ok = r.textures[call.Texture]; !ok {
				return fmt.Errorf("%w: %d", compositor.ErrUnknownTexture, call.Texture)
			}
		}
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.Uniform1i(p.tex, 0)
		r.floats = primitive.GlyphFloats(r.floats[:0], call.Glyphs)
		buf, n = &r.glyphs, len(call.Glyphs)
	case compositor.Flat:
		r.floats = primitive.ColoredFloats(r.floats[:0], call.Colored)
		buf, n = &r.colored, len(call.Colored)
	}
	if n == 0 {
		return nil
	}

	gl.BindVertexArray(buf.vao)
	buf.upload(r.floats)
	gl.DrawArrays(gl.POINTS, 0, int32(n))
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	return glError("draw " + call.Program.String())
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", op, code)
	}
	return nil
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(cstr(src))
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, gsSrc, fsSrc string) (uint32, error) {
	stages := []struct {
		src  string
		kind uint32
	}{
		{vsSrc, gl.VERTEX_SHADER},
		{gsSrc, gl.GEOMETRY_SHADER},
		{fsSrc, gl.FRAGMENT_SHADER},
	}
	prog := gl.CreateProgram()
	var shaders []uint32
	defer func() {
		for _, sh := range shaders {
			gl.DeleteShader(sh)
		}
	}()
	for _, st := range stages {
		sh, err := makeShader(st.src, st.kind)
		if err != nil {
			gl.DeleteProgram(prog)
			return 0, err
		}
		shaders = append(shaders, sh)
		gl.AttachShader(prog, sh)
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
