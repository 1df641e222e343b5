package text

import (
	"fmt"
	"unicode"

	"github.com/chewxy/math32"
	"github.com/rivo/uniseg"

	"github.com/hubastard/glint/engine/geom"
)

// DefaultTabWidth is the tab stop interval in spaces.
const DefaultTabWidth = 4

// Unbounded disables wrapping when used as LayoutInput.MaxWidth.
var Unbounded = math32.Inf(1)

// LayoutInput describes one block of text. Size and MaxWidth are in points.
// Start is the top-left corner of the block; the ratio part is carried over
// to every glyph unchanged.
//
// Align places each line inside BoxWidth, or inside MaxWidth when BoxWidth
// is zero, or inside the widest line when neither is finite. VAlign places
// the block inside BoxHeight when it is positive.
type LayoutInput struct {
	Text     string
	Font     FontID
	Size     float32
	MaxWidth float32
	Start    geom.HybridCoord
	TabWidth int // spaces per tab stop, DefaultTabWidth when zero

	Align     Align
	VAlign    Align
	BoxWidth  float32
	BoxHeight float32
}

// PositionedGlyph is one layout record. Pen is the baseline origin.
// Invisible records mark line breaks and tabs.
type PositionedGlyph struct {
	Key     GlyphKey
	Pen     geom.HybridCoord
	Line    int
	Visible bool
	Advance float32
	Control ControlKind
	Offset  int // byte offset of the source character
}

type Layout struct {
	Glyphs []PositionedGlyph
	// Bounds is the widest line by the number of lines times the line
	// height, in points.
	Bounds geom.Vec2
	Lines  int
	// LineWidths is the measured width of each line, trailing whitespace
	// excluded.
	LineWidths []float32
	// Generation is the atlas generation the layout was computed against.
	Generation  uint64
	Diagnostics []Diagnostic
}

func (l *Layout) VisibleCount() int {
	n := 0
	for _, g := range l.Glyphs {
		if g.Visible {
			n++
		}
	}
	return n
}

// LayoutText breaks in.Text into lines no wider than in.MaxWidth, greedily,
// one pass. Words are runs of non-whitespace grapheme clusters. A word that
// does not fit moves to the next line unless it would be the first thing on
// its line, in which case it overflows. Whitespace never wraps; trailing
// whitespace stays on its line but is not measured.
func LayoutText(src GlyphSource, in LayoutInput) Layout {
	out := Layout{Generation: src.Generation()}
	if math32.IsNaN(in.MaxWidth) || in.MaxWidth < 0 || !validSize(in.Size) {
		err := fmt.Errorf("size %g, max width %g: %w", in.Size, in.MaxWidth, ErrInvalidBoxGeometry)
		out.Diagnostics = append(out.Diagnostics, Diagnostic{Err: err, Offset: -1})
		return out
	}
	if in.Text == "" {
		return out
	}
	if in.TabWidth <= 0 {
		in.TabWidth = DefaultTabWidth
	}

	lb := liner{src: src, in: in, metrics: src.LineMetrics(in.Font, in.Size)}
	g := uniseg.NewGraphemes(in.Text)
	for g.Next() {
		from, _ := g.Positions()
		lb.cluster(g.Runes(), from)
	}
	lb.flushWord()
	lb.endLine()

	out.Glyphs = lb.out
	out.Lines = lb.line + 1
	out.LineWidths = lb.widths
	out.Bounds = geom.V(lb.width, float32(out.Lines)*lb.metrics.Height())
	out.Diagnostics = lb.diags
	align(&out, in)
	return out
}

// MeasureText returns the bounds LayoutText would report.
func MeasureText(src GlyphSource, in LayoutInput) geom.Vec2 {
	return LayoutText(src, in).Bounds
}

type liner struct {
	src     GlyphSource
	in      LayoutInput
	metrics LineMetrics

	out       []PositionedGlyph
	word      []PositionedGlyph // Pen.Points.X holds the offset inside the word
	wordW     float32
	penX      float32
	line      int
	lineStart int
	width     float32
	widths    []float32
	diags     []Diagnostic
}

func (l *liner) key(r rune) GlyphKey {
	return GlyphKey{Font: l.in.Font, Rune: r, Size: l.in.Size}
}

func (l *liner) pen(x float32) geom.HybridCoord {
	y := l.metrics.Ascent + float32(l.line)*l.metrics.Height()
	return l.in.Start.AddPoints(geom.V(x, y))
}

func (l *liner) cluster(runes []rune, offset int) {
	switch kind := classifyRune(runes[0]); kind {
	case ControlNone:
	case ControlLineBreak:
		l.flushWord()
		l.out = append(l.out, PositionedGlyph{
			Key: l.key(runes[0]), Pen: l.pen(l.penX), Line: l.line,
			Control: kind, Offset: offset,
		})
		l.endLine()
		l.line++
		l.penX = 0
		l.lineStart = len(l.out)
		return
	case ControlTab:
		l.flushWord()
		l.tab(runes[0], offset)
		return
	case ControlBackspace:
		l.backspace()
		return
	default:
		err := fmt.Errorf("%s %U: %w", kind, runes[0], ErrUnhandledControl)
		l.diags = append(l.diags, Diagnostic{Err: err, Key: l.key(runes[0]), Offset: offset})
		return
	}

	if isBreakingSpace(runes[0]) {
		l.flushWord()
		for _, r := range runes {
			e := l.src.Lookup(l.key(r))
			l.out = append(l.out, PositionedGlyph{
				Key: l.key(r), Pen: l.pen(l.penX), Line: l.line,
				Visible: true, Advance: e.Advance, Offset: offset,
			})
			l.penX += e.Advance
		}
		return
	}

	for _, r := range runes {
		e := l.src.Lookup(l.key(r))
		if n := len(l.word); n > 0 {
			k := l.src.Kern(l.in.Font, l.word[n-1].Key.Rune, r, l.in.Size)
			l.word[n-1].Advance += k
			l.wordW += k
		}
		l.word = append(l.word, PositionedGlyph{
			Key: l.key(r), Pen: geom.Points(l.wordW, 0),
			Visible: true, Advance: e.Advance, Offset: offset,
		})
		l.wordW += e.Advance
	}
}

func (l *liner) flushWord() {
	if len(l.word) == 0 {
		return
	}
	if len(l.out) > l.lineStart && l.penX+l.wordW > l.in.MaxWidth {
		l.endLine()
		l.line++
		l.penX = 0
		l.lineStart = len(l.out)
	}
	for _, g := range l.word {
		g.Pen = l.pen(l.penX + g.Pen.Points.X)
		g.Line = l.line
		l.out = append(l.out, g)
	}
	l.penX += l.wordW
	l.word = l.word[:0]
	l.wordW = 0
}

func (l *liner) endLine() {
	var w float32
	for i := len(l.out) - 1; i >= l.lineStart; i-- {
		if g := l.out[i]; g.Visible && !unicode.IsSpace(g.Key.Rune) {
			w = g.Pen.Points.X - l.in.Start.Points.X + g.Advance
			break
		}
	}
	l.widths = append(l.widths, w)
	l.width = max(l.width, w)
}

func (l *liner) tab(r rune, offset int) {
	stop := l.src.Lookup(l.key(' ')).Advance * float32(l.in.TabWidth)
	if !(stop > 0) {
		return
	}
	next := (math32.Floor(l.penX/stop) + 1) * stop
	l.out = append(l.out, PositionedGlyph{
		Key: l.key(r), Pen: l.pen(l.penX), Line: l.line,
		Advance: next - l.penX, Control: ControlTab, Offset: offset,
	})
	l.penX = next
}

// backspace removes the previous grapheme cluster of the current line. The
// runes of a cluster share its byte offset.
func (l *liner) backspace() {
	if n := len(l.word); n > 0 {
		n = clusterStart(l.word, 0)
		l.word = l.word[:n]
		l.wordW = 0
		if n > 0 {
			// Drop the kerning toward the removed cluster.
			last := &l.word[n-1]
			last.Advance = l.src.Lookup(last.Key).Advance
			l.wordW = last.Pen.Points.X + last.Advance
		}
		return
	}
	if n := len(l.out); n > l.lineStart {
		n = clusterStart(l.out, l.lineStart)
		l.penX = l.out[n].Pen.Points.X - l.in.Start.Points.X
		l.out = l.out[:n]
	}
}

// clusterStart returns the index of the first record of the last cluster in
// gs, not going below floor.
func clusterStart(gs []PositionedGlyph, floor int) int {
	n := len(gs) - 1
	for n > floor && gs[n-1].Offset == gs[n].Offset {
		n--
	}
	return n
}
