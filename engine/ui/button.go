package ui

import (
	"github.com/hubastard/glint/engine/colors"
	"github.com/hubastard/glint/engine/text"
)

type UIButton struct {
	Common[*UIButton]
	label   *UILabel
	onClick func()
}

func Button(str string) *UIButton {
	b := &UIButton{}
	b.Common = NewCommon(b)
	b.label = Label(str).TextColor(colors.Black)
	b.Children(b.label)
	b.base.color = colors.White
	b.base.borderWidth = 1
	b.base.borderColor = colors.Gray
	b.base.SetPadding(10, 10, 10, 10)
	return b
}
func (b *UIButton) BgColor(color colors.Color) *UIButton   { b.base.color = color; return b }
func (b *UIButton) TextColor(color colors.Color) *UIButton { b.label.textColor = color; return b }
func (b *UIButton) FontSize(size float32) *UIButton        { b.label.fontSize = size; return b }
func (b *UIButton) Font(font text.FontID) *UIButton        { b.label.Font(font); return b }
func (b *UIButton) OnClick(f func()) *UIButton             { b.onClick = f; return b }
func (b *UIButton) Label() *UILabel                        { return b.label }

// Click runs the handler when (x, y), in points, lies inside the button.
func (b *UIButton) Click(x, y float32) bool {
	px, py := b.base.Pos()
	w, h := b.base.Size()
	if x < px || y < py || x >= px+w || y >= py+h {
		return false
	}
	if b.onClick != nil {
		b.onClick()
	}
	return true
}

func (b *UIButton) Layout(ctx *Context, constraints Constraints) LayoutResult {
	padding := b.base.Padding()
	inner := Constraints{
		Max: [2]float32{
			max(0, resolveConstraint(constraints.Max[0])-padding[0]-padding[2]),
			max(0, resolveConstraint(constraints.Max[1])-padding[1]-padding[3]),
		},
	}

	res := b.label.Layout(ctx, inner)
	contentW, contentH := res.Size[0], res.Size[1]

	width := b.base.resolveAxis(b.base.widthMod, b.base.widthVal, contentW+padding[0]+padding[2], constraints.Min[0], constraints.Max[0])
	height := b.base.resolveAxis(b.base.heightMod, b.base.heightVal, contentH+padding[1]+padding[3], constraints.Min[1], constraints.Max[1])
	b.base.SetSize(width, height)

	innerWidth := max(0, width-padding[0]-padding[2])
	innerHeight := max(0, height-padding[1]-padding[3])
	child := b.label.Node()
	childWidth := clamp(contentW, 0, innerWidth)
	if child.widthMod == SizeModeExpand {
		childWidth = innerWidth
	}
	childHeight := clamp(contentH, 0, innerHeight)
	if child.heightMod == SizeModeExpand {
		childHeight = innerHeight
	}
	child.SetSize(childWidth, childHeight)

	return LayoutResult{Size: [2]float32{width, height}}
}

func (b *UIButton) Draw(ctx *Context) {
	b.base.drawBox(ctx)
	x, y := b.base.innerPosition()
	b.label.Node().SetPos(x, y)
	b.label.Draw(ctx)
}
