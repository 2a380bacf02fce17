package viewport

import "github.com/ha1tch/flow-toolkit/pkg/geom"

// ToScreen maps a world-space point into screen space: subtract the scroll
// offset, then scale by the zoom factor around the origin (0,0).
func ToScreen(p geom.Point, s State) geom.Point {
	k := s.Scale()
	return geom.Point{
		X: (p.X - s.ScrollLeft) * k,
		Y: (p.Y - s.ScrollTop) * k,
	}
}

// ToWorld is the inverse of ToScreen.
func ToWorld(p geom.Point, s State) geom.Point {
	k := s.Scale()
	return geom.Point{
		X: p.X/k + s.ScrollLeft,
		Y: p.Y/k + s.ScrollTop,
	}
}

// RectToScreen maps a world-space rectangle into screen space.
func RectToScreen(r geom.Rect, s State) geom.Rect {
	min := ToScreen(r.Min(), s)
	k := s.Scale()
	return geom.Rect{X: min.X, Y: min.Y, W: r.W * k, H: r.H * k}
}

// RectToWorld maps a screen-space rectangle into world space.
func RectToWorld(r geom.Rect, s State) geom.Rect {
	min := ToWorld(r.Min(), s)
	k := s.Scale()
	return geom.Rect{X: min.X, Y: min.Y, W: r.W / k, H: r.H / k}
}
