package text

import (
	"image"
	"slices"
)

// skyline is a bottom-left skyline rectangle packer. Each segment covers
// [x, x+w) with everything above y already used; segments tile [0, width).
type skyline struct {
	width, height int
	segs          []skySeg
}

type skySeg struct{ x, y, w int }

func newSkyline(width, height int) *skyline {
	return &skyline{width: width, height: height, segs: []skySeg{{0, 0, width}}}
}

// place reserves a w×h box and returns its top-left corner. Among all
// candidate positions it picks the lowest top edge, then the leftmost.
func (s *skyline) place(w, h int) (image.Point, bool) {
	if w <= 0 || h <= 0 || w > s.width || h > s.height {
		return image.Point{}, false
	}
	best, bestY := -1, 0
	for i := range s.segs {
		y, ok := s.fit(i, w, h)
		if !ok {
			continue
		}
		if best < 0 || y < bestY {
			best, bestY = i, y
		}
	}
	if best < 0 {
		return image.Point{}, false
	}
	x := s.segs[best].x
	s.add(best, x, bestY+h, w)
	return image.Pt(x, bestY), true
}

func (s *skyline) fit(i, w, h int) (int, bool) {
	x := s.segs[i].x
	if x+w > s.width {
		return 0, false
	}
	y := 0
	for j, left := i, w; left > 0; j++ {
		if j >= len(s.segs) {
			return 0, false
		}
		y = max(y, s.segs[j].y)
		if y+h > s.height {
			return 0, false
		}
		left -= s.segs[j].w
	}
	return y, true
}

func (s *skyline) add(i, x, y, w int) {
	s.segs = slices.Insert(s.segs, i, skySeg{x: x, y: y, w: w})
	for j := i + 1; j < len(s.segs); {
		prev, cur := s.segs[j-1], &s.segs[j]
		end := prev.x + prev.w
		if cur.x >= end {
			break
		}
		shrink := end - cur.x
		cur.x += shrink
		cur.w -= shrink
		if cur.w > 0 {
			break
		}
		s.segs = slices.Delete(s.segs, j, j+1)
	}
	for j := 0; j+1 < len(s.segs); {
		if s.segs[j].y == s.segs[j+1].y {
			s.segs[j].w += s.segs[j+1].w
			s.segs = slices.Delete(s.segs, j+1, j+2)
			continue
		}
		j++
	}
}
