package soft

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/geom"
	"github.com/hubastard/glint/engine/gfx/compositor"
	"github.com/hubastard/glint/engine/gfx/primitive"
	"github.com/hubastard/glint/engine/text"
)

func setup(t *testing.T, w, h int) (*Renderer, *compositor.Compositor, text.FontID) {
	t.Helper()
	face, err := text.ParseOpenType("goregular", goregular.TTF)
	require.NoError(t, err)
	t.Cleanup(func() { _ = face.Close() })
	atlas := text.NewAtlas(text.DefaultAtlasConfig())
	font := atlas.AddFace(face)
	r := New(w, h)
	return r, compositor.New(r, atlas), font
}

func rgba(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestFlatShapeWithBorder(t *testing.T) {
	r, c, _ := setup(t, 100, 100)
	require.NoError(t, c.BeginFrame(r.Viewport(72).Frame()))
	require.NoError(t, c.SubmitShapes(compositor.Layer{}, primitive.Shape{
		Bounds:      geom.Rect{Min: geom.Points(10, 10), Max: geom.Points(30, 30)},
		Fill:        colors.Red,
		BorderWidth: 2,
		BorderColor: colors.White,
	}))
	_, err := c.EndFrame()
	require.NoError(t, err)

	img := r.Target()
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgba(img, 20, 20))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(img, 10, 20), "left border")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(img, 20, 29), "bottom border")
	assert.Equal(t, color.RGBA{}, rgba(img, 5, 5))
	assert.Equal(t, color.RGBA{}, rgba(img, 40, 40))
	assert.Equal(t, 5, r.Quads())
}

func TestNestedFrameShape(t *testing.T) {
	r, c, _ := setup(t, 100, 100)
	root := r.Viewport(72).Frame()
	right := root.WithRect(geom.Rect{Min: geom.Ratio(0.5, 0), Max: geom.Ratio(1, 1)})

	require.NoError(t, c.BeginFrame(root))
	require.NoError(t, c.SubmitShapes(compositor.Layer{Frame: &right}, primitive.Shape{
		Bounds: geom.Rect{Min: geom.Ratio(0, 0), Max: geom.Hybrid(0, 1, 10, 0)},
		Fill:   colors.Red,
	}))
	_, err := c.EndFrame()
	require.NoError(t, err)

	img := r.Target()
	assert.Equal(t, uint8(255), rgba(img, 55, 50).R)
	assert.Equal(t, uint8(0), rgba(img, 45, 50).A)
	assert.Equal(t, uint8(0), rgba(img, 65, 50).A)
}

func TestTextLandsInsideItsBounds(t *testing.T) {
	r, c, font := setup(t, 200, 80)
	lt := text.LayoutText(c.Atlas(), text.LayoutInput{
		Text: "Hi", Font: font, Size: 24, MaxWidth: text.Unbounded, Start: geom.Points(10, 10),
	})
	red := colors.Red

	require.NoError(t, c.BeginFrame(r.Viewport(72).Frame()))
	require.NoError(t, c.SubmitText(compositor.Layer{}, lt, geom.HybridCoord{}, &red))
	_, err := c.EndFrame()
	require.NoError(t, err)

	box := image.Rect(8, 8, 10+int(lt.Bounds.X)+3, 10+int(lt.Bounds.Y)+3)
	img := r.Target()
	inked := 0
	for y := 0; y < 80; y++ {
		for x := 0; x < 200; x++ {
			px := rgba(img, x, y)
			if px.A == 0 {
				continue
			}
			inked++
			assert.True(t, image.Pt(x, y).In(box), "ink outside text bounds at %d,%d", x, y)
			assert.Zero(t, px.G)
		}
	}
	assert.Greater(t, inked, 20)
}

func TestSpriteSamplesTexture(t *testing.T) {
	r, c, _ := setup(t, 40, 20)
	sheet := image.NewRGBA(image.Rect(0, 0, 2, 1))
	sheet.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	sheet.SetRGBA(1, 0, color.RGBA{0, 0, 255, 255})
	id := c.AddTexture(sheet)

	require.NoError(t, c.BeginFrame(r.Viewport(72).Frame()))
	bounds := geom.Rect{Min: geom.Points(0, 0), Max: geom.Points(20, 10)}
	require.NoError(t, c.SubmitSprite(compositor.Layer{}, compositor.WholeTexture(id), bounds, colors.White))
	_, err := c.EndFrame()
	require.NoError(t, err)

	img := r.Target()
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgba(img, 5, 5))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, rgba(img, 15, 5))
	assert.Equal(t, color.RGBA{}, rgba(img, 25, 5))
}

func TestLaterZCoversEarlier(t *testing.T) {
	r, c, _ := setup(t, 20, 20)
	full := geom.Rect{Min: geom.Ratio(0, 0), Max: geom.Ratio(1, 1)}

	require.NoError(t, c.BeginFrame(r.Viewport(72).Frame()))
	require.NoError(t, c.SubmitShapes(compositor.Layer{Z: 5}, primitive.Shape{Bounds: full, Fill: colors.Red}))
	require.NoError(t, c.SubmitShapes(compositor.Layer{Z: -1}, primitive.Shape{Bounds: full, Fill: colors.White}))
	_, err := c.EndFrame()
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgba(r.Target(), 10, 10))
}

func TestClearAndEncode(t *testing.T) {
	r := New(4, 3)
	r.Clear(colors.White.WithAlpha(0.5))
	assert.Equal(t, color.RGBA{128, 128, 128, 128}, rgba(r.Target(), 3, 2))

	var buf bytes.Buffer
	require.NoError(t, r.WritePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestDrawWithoutAtlasFails(t *testing.T) {
	r := New(4, 4)
	err := r.Draw(compositor.DrawCall{Program: compositor.TexturedAlpha, Glyphs: []primitive.GlyphPoint{{}}})
	assert.Error(t, err)
}
