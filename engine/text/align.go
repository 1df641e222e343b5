package text

// Align positions text along one axis of its box.
type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

func (a Align) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	}
	return "unknown"
}

func (a Align) factor() float32 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignEnd:
		return 1
	}
	return 0
}

// align shifts each line by its share of the free space in the box.
func align(l *Layout, in LayoutInput) {
	fx, fy := in.Align.factor(), in.VAlign.factor()
	if fx == 0 && fy == 0 {
		return
	}
	boxW := l.Bounds.X
	switch {
	case validSize(in.BoxWidth):
		boxW = in.BoxWidth
	case validSize(in.MaxWidth):
		boxW = in.MaxWidth
	}
	var dy float32
	if validSize(in.BoxHeight) {
		dy = (in.BoxHeight - l.Bounds.Y) * fy
	}
	for i := range l.Glyphs {
		g := &l.Glyphs[i]
		g.Pen.Points.X += (boxW - l.LineWidths[g.Line]) * fx
		g.Pen.Points.Y += dy
	}
}
