package text

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"slices"

	"github.com/chewxy/math32"

	"github.com/hubastard/glint/engine/geom"
	"github.com/hubastard/glint/engine/logx"
)

// GlyphKey identifies one rasterized glyph. Size is in points.
type GlyphKey struct {
	Font FontID
	Rune rune
	Size float32
}

// EntryID is stable for the lifetime of an entry, across repacks.
type EntryID uint32

// UVRect is a normalized texture rectangle, origin at the top-left texel.
type UVRect struct {
	Min, Max geom.Vec2
}

// AtlasEntry describes where a glyph lives in the atlas and how to place it.
// Metrics are in points.
type AtlasEntry struct {
	ID       EntryID
	Key      GlyphKey
	UV       UVRect
	Px       image.Rectangle
	Size     geom.Vec2
	BearingX float32
	BearingY float32
	Advance  float32
	// Generation is the atlas generation the UV rectangle belongs to.
	Generation uint64
	// Placeholder marks the tofu box substituted for a missing glyph.
	Placeholder bool
}

// Blank reports whether the entry has no pixels, as for a space.
func (e AtlasEntry) Blank() bool { return e.Px.Empty() }

// tofuRune keys the synthesized placeholder glyph of a font and size.
const tofuRune rune = -1

const maxDiagnostics = 64

type AtlasConfig struct {
	InitialSize    int     `yaml:"initial_size"`
	MaxSize        int     `yaml:"max_size"`
	Padding        int     `yaml:"padding"`
	PixelsPerPoint float32 `yaml:"pixels_per_point"`
}

func DefaultAtlasConfig() AtlasConfig {
	return AtlasConfig{InitialSize: 256, MaxSize: 4096, Padding: 2, PixelsPerPoint: 1}
}

func (c AtlasConfig) withDefaults() AtlasConfig {
	d := DefaultAtlasConfig()
	if c.InitialSize <= 0 {
		c.InitialSize = d.InitialSize
	}
	if c.MaxSize < c.InitialSize {
		c.MaxSize = max(d.MaxSize, c.InitialSize)
	}
	if c.Padding < 0 {
		c.Padding = 0
	}
	if !(c.PixelsPerPoint > 0) || math32.IsInf(c.PixelsPerPoint, 0) {
		c.PixelsPerPoint = d.PixelsPerPoint
	}
	return c
}

type atlasEntry struct {
	AtlasEntry
	mask     *image.Alpha
	lastUsed uint64
}

type lineKey struct {
	font FontID
	size float32
}

// Atlas rasterizes glyphs on demand into a single alpha texture. When the
// texture fills up it doubles in size up to MaxSize, then evicts glyphs not
// used in the current frame. Every repack bumps the generation by one.
//
// Atlas is not safe for concurrent use. Hand a Snapshot to other goroutines.
type Atlas struct {
	cfg   AtlasConfig
	faces []Face
	lines map[lineKey]LineMetrics

	entries map[GlyphKey]*atlasEntry
	live    []*atlasEntry
	missing map[GlyphKey]struct{}

	packer     *skyline
	pixels     *image.Alpha
	generation uint64
	frame      uint64
	nextID     EntryID

	dirty    bool
	degraded bool
	diags    []Diagnostic
}

func NewAtlas(cfg AtlasConfig) *Atlas {
	cfg = cfg.withDefaults()
	return &Atlas{
		cfg:        cfg,
		lines:      make(map[lineKey]LineMetrics),
		entries:    make(map[GlyphKey]*atlasEntry),
		missing:    make(map[GlyphKey]struct{}),
		packer:     newSkyline(cfg.InitialSize, cfg.InitialSize),
		pixels:     image.NewAlpha(image.Rect(0, 0, cfg.InitialSize, cfg.InitialSize)),
		generation: 1,
		dirty:      true,
	}
}

// AddFace registers f and returns its id.
func (a *Atlas) AddFace(f Face) FontID {
	a.faces = append(a.faces, f)
	return FontID(len(a.faces) - 1)
}

func (a *Atlas) Face(id FontID) (Face, bool) {
	if int(id) >= len(a.faces) {
		return nil, false
	}
	return a.faces[id], true
}

func (a *Atlas) Config() AtlasConfig { return a.cfg }

// SetPixelsPerPoint changes the raster density, typically after the window
// moved to a display with another DPI. A change drops every cached glyph,
// shrinks the texture back to InitialSize and bumps the generation.
// Invalid or unchanged values are ignored.
func (a *Atlas) SetPixelsPerPoint(ppp float32) {
	if !validSize(ppp) || ppp == a.cfg.PixelsPerPoint {
		return
	}
	a.cfg.PixelsPerPoint = ppp
	clear(a.entries)
	clear(a.lines)
	clear(a.missing)
	clear(a.live)
	a.live = a.live[:0]
	size := a.cfg.InitialSize
	a.packer = newSkyline(size, size)
	a.pixels = image.NewAlpha(image.Rect(0, 0, size, size))
	a.generation++
	a.dirty = true
	logx.L().Debug("glyph atlas density changed",
		"pixels_per_point", ppp, "generation", a.generation)
}

// Kern returns the pair kerning between left and right in points, zero
// when the face has none.
func (a *Atlas) Kern(font FontID, left, right rune, size float32) float32 {
	face, ok := a.Face(font)
	if !ok {
		return 0
	}
	return kern(face, left, right, size, a.cfg.PixelsPerPoint)
}

// LineMetrics returns metrics in points. Unknown fonts yield zero metrics.
func (a *Atlas) LineMetrics(font FontID, size float32) LineMetrics {
	k := lineKey{font, size}
	if m, ok := a.lines[k]; ok {
		return m
	}
	face, ok := a.Face(font)
	if !ok || !validSize(size) {
		return LineMetrics{}
	}
	ppp := a.cfg.PixelsPerPoint
	m := face.LineMetrics(size * ppp).scale(1 / ppp)
	a.lines[k] = m
	return m
}

// Lookup never fails. Glyphs the font cannot render, or that do not fit,
// resolve to the font's placeholder box and leave a diagnostic behind.
func (a *Atlas) Lookup(key GlyphKey) AtlasEntry {
	e, err := a.get(key)
	if err == nil {
		return e.AtlasEntry
	}
	if errors.Is(err, ErrUnknownFont) {
		return AtlasEntry{Key: key, Generation: a.generation, Placeholder: true}
	}
	return a.placeholder(key)
}

// Get is the strict form of Lookup.
func (a *Atlas) Get(key GlyphKey) (AtlasEntry, error) {
	e, err := a.get(key)
	if err != nil {
		return AtlasEntry{}, err
	}
	return e.AtlasEntry, nil
}

// Prepare rasterizes every rune of s so a later Snapshot can serve it.
func (a *Atlas) Prepare(font FontID, size float32, s string) {
	a.LineMetrics(font, size)
	a.Lookup(GlyphKey{Font: font, Rune: ' ', Size: size})
	for _, r := range s {
		if classifyRune(r) == ControlNone {
			a.Lookup(GlyphKey{Font: font, Rune: r, Size: size})
		}
	}
}

func (a *Atlas) placeholder(key GlyphKey) AtlasEntry {
	tofu := GlyphKey{Font: key.Font, Rune: tofuRune, Size: key.Size}
	e, err := a.get(tofu)
	if err != nil {
		return AtlasEntry{Key: tofu, Generation: a.generation, Placeholder: true}
	}
	return e.AtlasEntry
}

func (a *Atlas) get(key GlyphKey) (*atlasEntry, error) {
	if e, ok := a.entries[key]; ok {
		e.lastUsed = a.frame
		return e, nil
	}
	if _, ok := a.missing[key]; ok {
		return nil, ErrGlyphNotRenderable
	}
	face, ok := a.Face(key.Font)
	if !ok {
		err := fmt.Errorf("font %d: %w", key.Font, ErrUnknownFont)
		a.report(key, err)
		return nil, err
	}

	img, ok := a.rasterize(face, key)
	if !ok {
		a.missing[key] = struct{}{}
		err := fmt.Errorf("rune %U in %s: %w", key.Rune, face.Name(), ErrGlyphNotRenderable)
		a.report(key, err)
		return nil, err
	}

	ppp := a.cfg.PixelsPerPoint
	e := &atlasEntry{
		AtlasEntry: AtlasEntry{
			ID:          a.nextID,
			Key:         key,
			BearingX:    img.BearingX / ppp,
			BearingY:    img.BearingY / ppp,
			Advance:     img.Advance / ppp,
			Generation:  a.generation,
			Placeholder: key.Rune == tofuRune,
		},
		mask:     img.Mask,
		lastUsed: a.frame,
	}
	if e.mask != nil {
		e.Size = geom.V(float32(e.mask.Rect.Dx())/ppp, float32(e.mask.Rect.Dy())/ppp)
	}
	if err := a.insert(e); err != nil {
		a.degraded = true
		a.report(key, err)
		logx.L().Warn("glyph dropped", "rune", key.Rune, "size", key.Size, "err", err)
		return nil, err
	}
	a.nextID++
	a.entries[key] = e
	a.live = append(a.live, e)
	return e, nil
}

func (a *Atlas) rasterize(face Face, key GlyphKey) (GlyphImage, bool) {
	if !validSize(key.Size) {
		return GlyphImage{}, false
	}
	sizePx := key.Size * a.cfg.PixelsPerPoint
	if key.Rune == tofuRune {
		return tofuGlyph(sizePx), true
	}
	return face.Glyph(key.Rune, sizePx)
}

func (a *Atlas) insert(e *atlasEntry) error {
	if e.mask == nil || e.mask.Rect.Empty() {
		e.mask = nil
		return nil
	}
	w, h := e.mask.Rect.Dx(), e.mask.Rect.Dy()
	if p, ok := a.packer.place(w+a.cfg.Padding, h+a.cfg.Padding); ok {
		r := image.Rect(p.X, p.Y, p.X+w, p.Y+h)
		if a.overlaps(r) {
			return fmt.Errorf("text: packer returned overlapping rect %v", r)
		}
		a.blit(e, r)
		return nil
	}
	if a.grow(a.pixels.Rect.Dx()*2, e) {
		return nil
	}
	if a.evict() {
		if a.grow(a.pixels.Rect.Dx(), e) {
			return nil
		}
		// Reclaim the evicted space even though e stays out.
		a.repack(a.pixels.Rect.Dx(), nil)
	}
	return fmt.Errorf("glyph %U at %gpt (%dx%d px) in %dpx atlas: %w",
		e.Key.Rune, e.Key.Size, w, h, a.pixels.Rect.Dx(), ErrAtlasOverflow)
}

func (a *Atlas) overlaps(r image.Rectangle) bool {
	for _, o := range a.live {
		if !o.Px.Empty() && o.Px.Overlaps(r) {
			return true
		}
	}
	return false
}

func (a *Atlas) blit(e *atlasEntry, r image.Rectangle) {
	draw.Draw(a.pixels, r, e.mask, e.mask.Rect.Min, draw.Src)
	e.Px = r
	e.UV = a.uv(r)
	a.dirty = true
}

func (a *Atlas) uv(r image.Rectangle) UVRect {
	w, h := float32(a.pixels.Rect.Dx()), float32(a.pixels.Rect.Dy())
	return UVRect{
		Min: geom.V(float32(r.Min.X)/w, float32(r.Min.Y)/h),
		Max: geom.V(float32(r.Max.X)/w, float32(r.Max.Y)/h),
	}
}

// grow repacks into the first size from size up to MaxSize, doubling, that
// fits every live glyph plus extra.
func (a *Atlas) grow(size int, extra *atlasEntry) bool {
	for ; size <= a.cfg.MaxSize; size *= 2 {
		if a.repack(size, extra) {
			return true
		}
	}
	return false
}

// repack lays out every live glyph plus extra into a fresh size×size texture.
// Nothing changes unless everything fits.
func (a *Atlas) repack(size int, extra *atlasEntry) bool {
	order := make([]*atlasEntry, 0, len(a.live)+1)
	for _, e := range a.live {
		if e.mask != nil {
			order = append(order, e)
		}
	}
	if extra != nil {
		order = append(order, extra)
	}
	// Tallest first packs a skyline tighter; ties keep id order so repacks
	// are deterministic.
	slices.SortStableFunc(order, func(x, y *atlasEntry) int {
		return y.mask.Rect.Dy() - x.mask.Rect.Dy()
	})

	packer := newSkyline(size, size)
	rects := make([]image.Rectangle, len(order))
	for i, e := range order {
		w, h := e.mask.Rect.Dx(), e.mask.Rect.Dy()
		p, ok := packer.place(w+a.cfg.Padding, h+a.cfg.Padding)
		if !ok {
			return false
		}
		rects[i] = image.Rect(p.X, p.Y, p.X+w, p.Y+h)
	}

	a.packer = packer
	a.pixels = image.NewAlpha(image.Rect(0, 0, size, size))
	a.generation++
	for _, e := range a.live {
		e.Px = image.Rectangle{}
		e.Generation = a.generation
	}
	for i, e := range order {
		a.blit(e, rects[i])
		e.Generation = a.generation
	}
	logx.L().Debug("glyph atlas repacked",
		"generation", a.generation, "size", size, "glyphs", len(order))
	return true
}

// evict drops glyphs not used during the current frame.
func (a *Atlas) evict() bool {
	kept := a.live[:0]
	n := 0
	for _, e := range a.live {
		if e.lastUsed >= a.frame {
			kept = append(kept, e)
			continue
		}
		delete(a.entries, e.Key)
		n++
	}
	clear(a.live[len(kept):])
	a.live = kept
	if n > 0 {
		logx.L().Debug("glyph atlas evicted", "glyphs", n, "frame", a.frame)
	}
	return n > 0
}

func (a *Atlas) report(key GlyphKey, err error) {
	if len(a.diags) == maxDiagnostics {
		a.diags = slices.Delete(a.diags, 0, 1)
	}
	a.diags = append(a.diags, Diagnostic{Err: err, Key: key, Offset: -1})
}

// BeginFrame advances the eviction clock and clears per-frame diagnostics.
func (a *Atlas) BeginFrame() {
	a.frame++
	a.degraded = false
	a.diags = a.diags[:0]
}

// Generation changes whenever previously returned UV rectangles become stale.
func (a *Atlas) Generation() uint64 { return a.generation }

// Len is the number of cached glyphs, blank ones included.
func (a *Atlas) Len() int { return len(a.live) }

// Pixels returns the alpha coverage texture. It is replaced on repack.
func (a *Atlas) Pixels() *image.Alpha { return a.pixels }

// Dirty reports whether Pixels changed since the last MarkUploaded.
func (a *Atlas) Dirty() bool { return a.dirty }

func (a *Atlas) MarkUploaded() { a.dirty = false }

// Degraded reports whether a glyph was dropped for lack of space this frame.
func (a *Atlas) Degraded() bool { return a.degraded }

func (a *Atlas) Diagnostics() []Diagnostic { return slices.Clone(a.diags) }

func validSize(size float32) bool {
	return size > 0 && !math32.IsInf(size, 0)
}

// tofuGlyph draws a hollow box sized from the em.
func tofuGlyph(sizePx float32) GlyphImage {
	round := func(v float32) int { return int(math32.Floor(v + 0.5)) }
	w, h := max(round(sizePx*0.5), 3), max(round(sizePx*0.7), 3)
	m := image.NewAlpha(image.Rect(0, 0, w, h))
	for x := range w {
		m.Pix[x] = 0xff
		m.Pix[(h-1)*m.Stride+x] = 0xff
	}
	for y := range h {
		m.Pix[y*m.Stride] = 0xff
		m.Pix[y*m.Stride+w-1] = 0xff
	}
	pad := float32(round(sizePx * 0.05))
	return GlyphImage{
		Mask:     m,
		Advance:  float32(w) + 2*pad,
		BearingX: pad,
		BearingY: float32(h),
	}
}
