// Package text turns strings into positioned glyphs.
//
// An Atlas rasterizes glyphs on demand from registered Faces into one alpha
// texture and hands out AtlasEntry records describing where each glyph
// lives. LayoutText breaks a string into lines against any GlyphSource,
// either the Atlas itself or an immutable AtlasSnapshot shared between
// goroutines. Pen positions are hybrid coordinates: the ratio part is the
// block's anchor, the point part the glyph's baseline origin.
package text
