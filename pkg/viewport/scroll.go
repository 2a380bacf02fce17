package viewport

import (
	"fmt"
	"math"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
)

// Scroll owns the scroll offsets and the logical content extent.
type Scroll struct {
	left, top     float64
	width, height float64 // content extent, world units

	// measured size of the host element, screen units
	viewW, viewH float64

	margin        float64
	horizontalBox bool
}

// NewScroll creates a scroll controller. margin is the space kept below the
// lowest block; horizontalBox makes ViewBox follow the horizontal offset.
func NewScroll(margin float64, horizontalBox bool) *Scroll {
	return &Scroll{margin: margin, horizontalBox: horizontalBox}
}

// Left returns the horizontal scroll offset.
func (s *Scroll) Left() float64 { return s.left }

// Top returns the vertical scroll offset.
func (s *Scroll) Top() float64 { return s.top }

// ContentWidth returns the logical width needed to show every block.
func (s *Scroll) ContentWidth() float64 { return s.width }

// ContentHeight returns the logical height needed to show every block.
func (s *Scroll) ContentHeight() float64 { return s.height }

// Measured returns the host element size last reported by the Measurer.
func (s *Scroll) Measured() (w, h float64) { return s.viewW, s.viewH }

// Mount seeds the content extent from the host element's measured size.
// Blocks already present still get their margin.
func (s *Scroll) Mount(width, height float64, blocks []flow.Block) {
	s.viewW, s.viewH = width, height
	s.width = width
	s.height = height
	if len(blocks) > 0 {
		s.height = math.Max(height, s.blockExtent(blocks))
	}
}

// Resize records a new measured size. The width only grows; the height
// covers both the element and the blocks.
func (s *Scroll) Resize(width, height float64, blocks []flow.Block) {
	s.viewW, s.viewH = width, height
	s.width = math.Max(s.width, width)
	h := height
	if len(blocks) > 0 {
		h = math.Max(h, s.blockExtent(blocks))
	}
	s.height = h
}

// FitHeight recomputes the content height as the lowest block Y plus the
// margin. Called whenever the number of blocks changes.
func (s *Scroll) FitHeight(blocks []flow.Block) {
	s.height = s.blockExtent(blocks)
}

// GrowHeight raises the content height so the lowest block keeps its margin.
// It never shrinks the height. Reports whether it changed.
func (s *Scroll) GrowHeight(blocks []flow.Block) bool {
	if len(blocks) == 0 {
		return false
	}
	h := s.blockExtent(blocks)
	if h <= s.height {
		return false
	}
	s.height = h
	return true
}

// GrowWidth raises the content width to childrenWidth when larger. The width
// never shrinks on its own. Reports whether it changed.
func (s *Scroll) GrowWidth(childrenWidth float64) bool {
	if math.IsNaN(childrenWidth) || childrenWidth <= s.width {
		return false
	}
	s.width = childrenWidth
	return true
}

func (s *Scroll) blockExtent(blocks []flow.Block) float64 {
	maxY := 0.0
	for _, b := range blocks {
		if b.Y > maxY {
			maxY = b.Y
		}
	}
	return maxY + s.margin
}

// ScrollTo sets both offsets, clamped to the scrollable range at the given
// zoom scale. Reports whether anything moved.
func (s *Scroll) ScrollTo(left, top, scale float64) bool {
	maxL, maxT := s.limits(scale)
	left = clamp(left, 0, maxL)
	top = clamp(top, 0, maxT)
	if left == s.left && top == s.top {
		return false
	}
	s.left, s.top = left, top
	return true
}

// ScrollBy moves both offsets by a world-space delta.
func (s *Scroll) ScrollBy(dx, dy, scale float64) bool {
	return s.ScrollTo(s.left+dx, s.top+dy, scale)
}

// limits returns the largest valid offsets: content extent minus the part of
// it visible in the measured element.
func (s *Scroll) limits(scale float64) (maxLeft, maxTop float64) {
	if scale <= 0 {
		scale = 1
	}
	maxLeft = math.Max(0, s.width-s.viewW/scale)
	maxTop = math.Max(0, s.height-s.viewH/scale)
	return maxLeft, maxTop
}

// ViewBox returns the visible window of the connection overlay.
func (s *Scroll) ViewBox() ViewBox {
	left := 0.0
	if s.horizontalBox {
		left = s.left
	}
	return ViewBox{Left: left, Top: s.top, Width: s.width, Height: s.height}
}

// ViewBox is the connection overlay's coordinate window.
type ViewBox struct {
	Left, Top, Width, Height float64
}

// String renders the box in SVG viewBox syntax, e.g. "0 0 1920 1080".
func (v ViewBox) String() string {
	return fmt.Sprintf("%g %g %g %g", v.Left, v.Top, v.Width, v.Height)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
