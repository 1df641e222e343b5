package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(2, 1, color.NRGBA{255, 0, 0, 255})
	return fstest.MapFS{
		"textures/dot.png":    {Data: pngBytes(t, src)},
		"textures/broken.png": {Data: []byte("not a png")},
		"shaders/flat.frag":   {Data: []byte("void main() {}")},
		"fonts/regular.ttf":   {Data: goregular.TTF},
	}
}

func TestLoadRGBA(t *testing.T) {
	l := FromFS(testFS(t))
	img, err := l.LoadRGBA("dot.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	assert.Equal(t, 12, img.Stride)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(2, 1))

	_, err = l.LoadRGBA("broken.png")
	assert.Error(t, err)
	_, err = l.LoadRGBA("missing.png")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadShader(t *testing.T) {
	l := FromFS(testFS(t))
	src, err := l.LoadShader("flat.frag")
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", src)

	_, err = l.LoadShader("glyph.vert")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadFonts(t *testing.T) {
	l := FromFS(testFS(t))

	ot, err := l.LoadFont("regular.ttf")
	require.NoError(t, err)
	defer ot.Close()
	assert.Equal(t, "regular.ttf", ot.Name())

	gt, err := l.LoadOutlineFont("regular.ttf")
	require.NoError(t, err)
	_, ok := gt.Glyph('A', 16)
	assert.True(t, ok)

	_, err = l.LoadFont("missing.ttf")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	def, err := DefaultFont()
	require.NoError(t, err)
	defer def.Close()
	assert.Equal(t, "goregular", def.Name())

	outline, err := DefaultOutlineFont()
	require.NoError(t, err)
	assert.Greater(t, outline.LineMetrics(16).Height(), float32(0))
}
