package text

import (
	"unicode"

	"golang.org/x/text/unicode/bidi"
)

// ControlKind classifies characters that steer layout instead of drawing.
type ControlKind uint8

const (
	ControlNone ControlKind = iota
	ControlLineBreak
	ControlTab
	ControlBackspace
	// ControlBidi covers explicit direction embeddings, overrides, isolates
	// and marks. Layout is left-to-right only, so these are dropped.
	ControlBidi
	ControlOther
)

func (k ControlKind) String() string {
	switch k {
	case ControlNone:
		return "none"
	case ControlLineBreak:
		return "line-break"
	case ControlTab:
		return "tab"
	case ControlBackspace:
		return "backspace"
	case ControlBidi:
		return "bidi"
	case ControlOther:
		return "other"
	}
	return "unknown"
}

func classifyRune(r rune) ControlKind {
	switch r {
	case '\n', '\r', '\u0085', '\u2028', '\u2029':
		return ControlLineBreak
	case '\t':
		return ControlTab
	case '\b':
		return ControlBackspace
	case '\u200e', '\u200f', '\u061c':
		return ControlBidi
	}
	p, _ := bidi.LookupRune(r)
	switch p.Class() {
	case bidi.LRE, bidi.RLE, bidi.LRO, bidi.RLO, bidi.PDF,
		bidi.LRI, bidi.RLI, bidi.FSI, bidi.PDI:
		return ControlBidi
	}
	if unicode.IsControl(r) {
		return ControlOther
	}
	return ControlNone
}

// isBreakingSpace reports whitespace that separates words. No-break spaces
// glue words together.
func isBreakingSpace(r rune) bool {
	switch r {
	case '\u00a0', '\u2007', '\u202f':
		return false
	}
	return unicode.IsSpace(r)
}
