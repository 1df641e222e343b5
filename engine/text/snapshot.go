package text

import (
	"maps"
	"slices"
)

// GlyphSource is what layout needs from an atlas.
type GlyphSource interface {
	Lookup(key GlyphKey) AtlasEntry
	LineMetrics(font FontID, size float32) LineMetrics
	// Kern is the pair adjustment between left and right in points.
	Kern(font FontID, left, right rune, size float32) float32
	Generation() uint64
}

var (
	_ GlyphSource = (*Atlas)(nil)
	_ GlyphSource = (*AtlasSnapshot)(nil)
)

// AtlasSnapshot is an immutable view of an Atlas at one generation. It is
// safe for concurrent use. Glyphs the atlas had not rasterized resolve to
// the placeholder box when one exists.
type AtlasSnapshot struct {
	generation uint64
	entries    map[GlyphKey]AtlasEntry
	lines      map[lineKey]LineMetrics
	faces      []Face
	ppp        float32
}

func (a *Atlas) Snapshot() *AtlasSnapshot {
	s := &AtlasSnapshot{
		generation: a.generation,
		entries:    make(map[GlyphKey]AtlasEntry, len(a.entries)),
		lines:      maps.Clone(a.lines),
		faces:      slices.Clone(a.faces),
		ppp:        a.cfg.PixelsPerPoint,
	}
	for k, e := range a.entries {
		s.entries[k] = e.AtlasEntry
	}
	return s
}

func (s *AtlasSnapshot) Generation() uint64 { return s.generation }

func (s *AtlasSnapshot) Has(key GlyphKey) bool {
	_, ok := s.entries[key]
	return ok
}

func (s *AtlasSnapshot) Lookup(key GlyphKey) AtlasEntry {
	if e, ok := s.entries[key]; ok {
		return e
	}
	tofu := GlyphKey{Font: key.Font, Rune: tofuRune, Size: key.Size}
	if e, ok := s.entries[tofu]; ok {
		return e
	}
	return AtlasEntry{Key: tofu, Generation: s.generation, Placeholder: true}
}

func (s *AtlasSnapshot) LineMetrics(font FontID, size float32) LineMetrics {
	return s.lines[lineKey{font, size}]
}

// Kern asks the face directly, so faces implementing Kerner must be safe for
// concurrent use.
func (s *AtlasSnapshot) Kern(font FontID, left, right rune, size float32) float32 {
	if int(font) >= len(s.faces) {
		return 0
	}
	return kern(s.faces[font], left, right, size, s.ppp)
}
