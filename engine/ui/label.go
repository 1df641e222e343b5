package ui

import (
	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/geom"
	"github.com/hubastard/glint/engine/text"
)

type UILabel struct {
	Common[*UILabel]
	text      string
	fontSize  float32
	font      *text.FontID
	textColor colors.Color
	wrap      bool
	maxWidth  float32
	align     text.Align
	valign    text.Align
	laidOut   text.Layout
}

func Label(str string) *UILabel {
	l := &UILabel{text: str, textColor: colors.White}
	l.Common = NewCommon(l)
	return l
}
func (l *UILabel) FontSize(size float32) *UILabel    { l.fontSize = size; return l }
func (l *UILabel) Font(font text.FontID) *UILabel    { l.font = &font; return l }
func (l *UILabel) TextColor(c colors.Color) *UILabel { l.textColor = c; return l }
func (l *UILabel) BgColor(c colors.Color) *UILabel   { l.base.color = c; return l }
func (l *UILabel) Wrap(enabled bool) *UILabel        { l.wrap = enabled; return l }
func (l *UILabel) SetText(s string) *UILabel         { l.text = s; return l }

// TextAlign places the text inside the label's padded box.
func (l *UILabel) TextAlign(h, v text.Align) *UILabel {
	l.align, l.valign = h, v
	return l
}

func (l *UILabel) Text() string            { return l.text }
func (l *UILabel) TextLayout() text.Layout { return l.laidOut }
func (l *UILabel) MaxWidth(width float32) *UILabel {
	l.maxWidth = width
	if width > 0 {
		l.wrap = true
	}
	return l
}

func (l *UILabel) input(ctx *Context, maxWidth float32) text.LayoutInput {
	in := text.LayoutInput{Text: l.text, Font: ctx.DefaultFont, Size: ctx.FontSize, MaxWidth: maxWidth}
	if l.font != nil {
		in.Font = *l.font
	}
	if l.fontSize > 0 {
		in.Size = l.fontSize
	}
	return in
}

func (l *UILabel) Layout(ctx *Context, constraints Constraints) LayoutResult {
	padding := l.base.Padding()
	wrapWidth := text.Unbounded
	if l.wrap {
		effectiveMax := resolveConstraint(constraints.Max[0])
		if l.maxWidth > 0 && l.maxWidth < effectiveMax {
			effectiveMax = l.maxWidth
		}
		wrapWidth = max(0, effectiveMax-padding[0]-padding[2])
	}

	l.laidOut = ctx.layoutText(l.input(ctx, wrapWidth))
	contentW, contentH := l.laidOut.Bounds.X, l.laidOut.Bounds.Y

	width := l.base.resolveAxis(l.base.widthMod, l.base.widthVal, contentW+padding[0]+padding[2], constraints.Min[0], constraints.Max[0])
	height := l.base.resolveAxis(l.base.heightMod, l.base.heightVal, contentH+padding[1]+padding[3], constraints.Min[1], constraints.Max[1])

	l.base.SetSize(width, height)
	if l.align != text.AlignStart || l.valign != text.AlignStart {
		in := l.input(ctx, wrapWidth)
		in.Align, in.VAlign = l.align, l.valign
		in.BoxWidth = width - padding[0] - padding[2]
		in.BoxHeight = height - padding[1] - padding[3]
		l.laidOut = ctx.layoutText(in)
	}
	return LayoutResult{Size: [2]float32{width, height}}
}

func (l *UILabel) Draw(ctx *Context) {
	l.base.drawBox(ctx)
	if l.laidOut.VisibleCount() == 0 || !l.textColor.Visible() {
		return
	}
	x, y := l.base.innerPosition()
	ctx.submitText(l.laidOut, geom.Points(x, y), l.textColor)
}
