package text

import (
	"github.com/chewxy/math32"

	"github.com/hubastard/glint/engine/geom"
)

// DefaultLayoutCacheSize bounds a LayoutCache created with size zero.
const DefaultLayoutCacheSize = 1000

// LayoutCache memoizes LayoutText results, least recently used first out.
// Entries are keyed on the atlas generation too, so a repack invalidates
// everything computed before it. Cached layouts are shared; do not modify
// their slices. Inputs with a NaN anywhere are laid out but never stored,
// since such a key could not be found again.
type LayoutCache struct {
	max        int
	m          map[layoutKey]*layoutElem
	head, tail *layoutElem
}

type layoutKey struct {
	text       string
	font       FontID
	size       float32
	maxWidth   float32
	start      geom.HybridCoord
	tabWidth   int
	align      Align
	valign     Align
	boxWidth   float32
	boxHeight  float32
	generation uint64
}

type layoutElem struct {
	next, prev *layoutElem
	key        layoutKey
	layout     Layout
}

func NewLayoutCache(size int) *LayoutCache {
	if size <= 0 {
		size = DefaultLayoutCacheSize
	}
	return &LayoutCache{max: size}
}

// Layout returns the cached layout for in, computing it on a miss.
func (c *LayoutCache) Layout(src GlyphSource, in LayoutInput) Layout {
	k := layoutKey{
		text: in.Text, font: in.Font, size: in.Size, maxWidth: in.MaxWidth,
		start: in.Start, tabWidth: in.TabWidth, align: in.Align, valign: in.VAlign,
		boxWidth: in.BoxWidth, boxHeight: in.BoxHeight, generation: src.Generation(),
	}
	if !k.storable() {
		return LayoutText(src, in)
	}
	if lt, ok := c.get(k); ok {
		return lt
	}
	lt := LayoutText(src, in)
	c.put(k, lt)
	return lt
}

func (c *LayoutCache) Len() int { return len(c.m) }

// storable reports whether k equals itself, which NaN fields break.
func (k layoutKey) storable() bool {
	for _, f := range [...]float32{
		k.size, k.maxWidth, k.boxWidth, k.boxHeight,
		k.start.Ratio.X, k.start.Ratio.Y, k.start.Points.X, k.start.Points.Y,
	} {
		if math32.IsNaN(f) {
			return false
		}
	}
	return true
}

func (c *LayoutCache) get(k layoutKey) (Layout, bool) {
	if lt, ok := c.m[k]; ok {
		c.remove(lt)
		c.insert(lt)
		return lt.layout, true
	}
	return Layout{}, false
}

func (c *LayoutCache) put(k layoutKey, lt Layout) {
	if c.m == nil {
		c.m = make(map[layoutKey]*layoutElem)
		c.head = new(layoutElem)
		c.tail = new(layoutElem)
		c.head.prev = c.tail
		c.tail.next = c.head
	}
	val := &layoutElem{key: k, layout: lt}
	c.m[k] = val
	c.insert(val)
	if len(c.m) > c.max {
		oldest := c.tail.next
		c.remove(oldest)
		delete(c.m, oldest.key)
	}
}

func (c *LayoutCache) remove(lt *layoutElem) {
	lt.next.prev = lt.prev
	lt.prev.next = lt.next
}

func (c *LayoutCache) insert(lt *layoutElem) {
	lt.next = c.head
	lt.prev = c.head.prev
	lt.prev.next = lt
	lt.next.prev = lt
}
