package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runDump(t *testing.T, stdin string, args ...string) report {
	t.Helper()
	var out, errOut bytes.Buffer
	require.NoError(t, run(args, strings.NewReader(stdin), &out, &errOut), errOut.String())
	var rep report
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &rep))
	return rep
}

func TestRunWritesPNGAndReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	rep := runDump(t, "", "-o", path, "--text", "Hello", "--width", "200", "--height", "100")

	assert.Equal(t, 5, rep.Glyphs)
	assert.Equal(t, 1, rep.Lines)
	assert.Equal(t, 2, rep.DrawCalls) // panel, then text
	assert.Equal(t, (rep.Glyphs+rep.Shapes)*4, rep.Vertices)
	assert.False(t, rep.Degraded)
	assert.Positive(t, rep.Uploads)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestRunReadsStdinAndWraps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	rep := runDump(t, "one two three four\n", "-o", path, "--max-width", "60", "--outline")
	assert.Greater(t, rep.Lines, 1)
	assert.Equal(t, len("onetwothreefour"), rep.Glyphs)
}

func TestRunRastersAtDisplayDensity(t *testing.T) {
	dir := t.TempDir()
	base := runDump(t, "", "-o", filepath.Join(dir, "72.png"), "-t", "Hello")
	hi := runDump(t, "", "-o", filepath.Join(dir, "144.png"), "-t", "Hello", "--dpi", "144")

	assert.EqualValues(t, 1, base.PixelsPerPoint)
	assert.EqualValues(t, 2, hi.PixelsPerPoint)
	assert.Equal(t, base.Glyphs, hi.Glyphs)
	assert.Equal(t, base.Lines, hi.Lines)
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "glint.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("width: 120\nheight: 80\nfont_size: 12\n"), 0o644))

	rep := runDump(t, "", "-c", cfgPath, "-o", filepath.Join(dir, "out.png"), "-t", "cfg")
	assert.Equal(t, 120, rep.Width)
	assert.Equal(t, 80, rep.Height)
}

func TestRunRejectsBadInput(t *testing.T) {
	var out, errOut bytes.Buffer
	dir := t.TempDir()

	err := run([]string{"--width=-5", "--height=-1", "-o", filepath.Join(dir, "x.png"), "-t", "x"}, strings.NewReader(""), &out, &errOut)
	assert.NoError(t, err, "non-positive overrides keep the defaults")

	err = run([]string{"--font", filepath.Join(dir, "missing.ttf"), "-t", "x"}, strings.NewReader(""), &out, &errOut)
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = run([]string{"--bogus"}, strings.NewReader(""), &out, &errOut)
	assert.Error(t, err)
}
